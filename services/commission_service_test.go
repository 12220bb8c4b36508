package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/leadrake/leadrake_backend/models"
	"github.com/leadrake/leadrake_backend/utils"
)

type fakeDealStore struct {
	deals map[primitive.ObjectID]*models.Deal
}

func (f *fakeDealStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Deal, error) {
	return f.deals[id], nil
}

type fakeWorkspaceStore struct {
	workspaces map[primitive.ObjectID]*models.Workspace
	err        error
}

func (f *fakeWorkspaceStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Workspace, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.workspaces[id], nil
}

type fakeProfileStore struct {
	profiles map[primitive.ObjectID]*models.SDRProfile
	applyErr error
}

func (f *fakeProfileStore) FindByUserID(_ context.Context, userID primitive.ObjectID) (*models.SDRProfile, error) {
	return f.profiles[userID], nil
}

func (f *fakeProfileStore) ApplyClosedDeal(_ context.Context, _, userID primitive.ObjectID, dealValue float64) (*ClosedDealResult, error) {
	if f.applyErr != nil {
		return nil, f.applyErr
	}
	profile, ok := f.profiles[userID]
	if !ok {
		profile = &models.SDRProfile{UserID: userID, SDRLevel: int(utils.Level1)}
		f.profiles[userID] = profile
	}
	oldLevel := utils.Level(profile.SDRLevel)
	profile.TotalClosedValue += dealValue
	profile.DealsClosed++

	progress, err := utils.LevelFor(profile.TotalClosedValue)
	if err != nil {
		return nil, err
	}
	newLevel := oldLevel
	if progress.Level > oldLevel {
		newLevel = progress.Level
		profile.SDRLevel = int(newLevel)
	}
	return &ClosedDealResult{
		OldLevel:         oldLevel,
		NewLevel:         newLevel,
		TotalClosedValue: profile.TotalClosedValue,
	}, nil
}

type fakeCommissionStore struct {
	byDeal    map[primitive.ObjectID]*models.Commission
	duplicate bool // force the unique-index race on the next Insert
}

func (f *fakeCommissionStore) ExistsForDeal(_ context.Context, dealID primitive.ObjectID) (bool, error) {
	_, ok := f.byDeal[dealID]
	return ok, nil
}

func (f *fakeCommissionStore) Insert(_ context.Context, commission *models.Commission) (bool, error) {
	if f.duplicate {
		return false, nil
	}
	if _, ok := f.byDeal[commission.DealID]; ok {
		return false, nil
	}
	f.byDeal[commission.DealID] = commission
	return true, nil
}

type sentNotification struct {
	userID    primitive.ObjectID
	notifType string
	message   string
	data      map[string]interface{}
}

type fakeNotifier struct {
	sent []sentNotification
	err  error
}

func (f *fakeNotifier) Send(_ context.Context, userID, _ primitive.ObjectID, notifType, _, message string, data map[string]interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentNotification{userID: userID, notifType: notifType, message: message, data: data})
	return nil
}

func (f *fakeNotifier) ofType(notifType string) []sentNotification {
	var out []sentNotification
	for _, n := range f.sent {
		if n.notifType == notifType {
			out = append(out, n)
		}
	}
	return out
}

type fixture struct {
	service     *CommissionService
	deals       *fakeDealStore
	workspaces  *fakeWorkspaceStore
	profiles    *fakeProfileStore
	commissions *fakeCommissionStore
	notifier    *fakeNotifier

	dealID      primitive.ObjectID
	workspaceID primitive.ObjectID
	sdrID       primitive.ObjectID
	ownerID     primitive.ObjectID
}

func newFixture(dealValue float64, stage string) *fixture {
	f := &fixture{
		dealID:      primitive.NewObjectID(),
		workspaceID: primitive.NewObjectID(),
		sdrID:       primitive.NewObjectID(),
		ownerID:     primitive.NewObjectID(),
	}
	f.deals = &fakeDealStore{deals: map[primitive.ObjectID]*models.Deal{
		f.dealID: {
			ID:          f.dealID,
			WorkspaceID: f.workspaceID,
			AssignedTo:  f.sdrID,
			Title:       "Acme onboarding",
			Value:       dealValue,
			Stage:       stage,
		},
	}}
	f.workspaces = &fakeWorkspaceStore{workspaces: map[primitive.ObjectID]*models.Workspace{
		f.workspaceID: {
			ID:          f.workspaceID,
			OwnerID:     f.ownerID,
			Name:        "North Agency",
			RakePercent: 2,
		},
	}}
	f.profiles = &fakeProfileStore{profiles: map[primitive.ObjectID]*models.SDRProfile{}}
	f.commissions = &fakeCommissionStore{byDeal: map[primitive.ObjectID]*models.Commission{}}
	f.notifier = &fakeNotifier{}
	f.service = NewCommissionService(f.deals, f.workspaces, f.profiles, f.commissions, f.notifier)
	return f
}

func TestOnDealWonCreatesCommission(t *testing.T) {
	f := newFixture(10000, models.StageClosedWon)

	outcome, err := f.service.OnDealWon(context.Background(), f.dealID)
	require.NoError(t, err)
	require.True(t, outcome.Created)
	require.NotNil(t, outcome.Commission)

	c := outcome.Commission
	assert.Equal(t, f.dealID, c.DealID)
	assert.Equal(t, f.sdrID, c.SDRID)
	assert.InDelta(t, 200, c.RakeAmount, 1e-9)
	assert.InDelta(t, 9800, c.GrossCommission, 1e-9)
	assert.Equal(t, 5.0, c.PlatformCutPercent)
	assert.InDelta(t, 490, c.PlatformCutAmount, 1e-9)
	assert.InDelta(t, 9310, c.SDRPayoutAmount, 1e-9)
	assert.Equal(t, 1, c.SDRLevel)
	assert.Equal(t, models.CommissionStatusPending, c.Status)

	// Owner and SDR each get a commission_created notification.
	created := f.notifier.ofType(models.NotificationCommissionCreated)
	require.Len(t, created, 2)
	assert.Equal(t, f.ownerID, created[0].userID)
	assert.Equal(t, f.sdrID, created[1].userID)
}

func TestOnDealWonSkipsNonClosedStage(t *testing.T) {
	f := newFixture(10000, models.StageProposal)

	outcome, err := f.service.OnDealWon(context.Background(), f.dealID)
	require.NoError(t, err)
	assert.False(t, outcome.Created)
	assert.Equal(t, SkipNotClosedWon, outcome.SkipReason)
	assert.Empty(t, f.commissions.byDeal)
	assert.Empty(t, f.notifier.sent)
}

func TestOnDealWonIsIdempotent(t *testing.T) {
	f := newFixture(10000, models.StageClosedWon)

	first, err := f.service.OnDealWon(context.Background(), f.dealID)
	require.NoError(t, err)
	require.True(t, first.Created)

	second, err := f.service.OnDealWon(context.Background(), f.dealID)
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, SkipAlreadyExists, second.SkipReason)

	assert.Len(t, f.commissions.byDeal, 1)
	profile := f.profiles.profiles[f.sdrID]
	require.NotNil(t, profile)
	assert.Equal(t, 10000.0, profile.TotalClosedValue)
	assert.Equal(t, 1, profile.DealsClosed)
}

func TestOnDealWonDuplicateKeyRace(t *testing.T) {
	// The pre-check passes but the unique index rejects the insert, as when
	// two triggers race past ExistsForDeal together.
	f := newFixture(10000, models.StageClosedWon)
	f.commissions.duplicate = true

	outcome, err := f.service.OnDealWon(context.Background(), f.dealID)
	require.NoError(t, err)
	assert.False(t, outcome.Created)
	assert.Equal(t, SkipAlreadyExists, outcome.SkipReason)
	assert.Empty(t, f.notifier.sent)
}

func TestOnDealWonMissingProfileDefaultsToLevel1(t *testing.T) {
	f := newFixture(10000, models.StageClosedWon)
	// No profile row seeded for the SDR.

	outcome, err := f.service.OnDealWon(context.Background(), f.dealID)
	require.NoError(t, err)
	require.True(t, outcome.Created)
	assert.Equal(t, 1, outcome.Commission.SDRLevel)
	assert.Equal(t, 5.0, outcome.Commission.PlatformCutPercent)
}

func TestOnDealWonStoredLevelWinsOverDerived(t *testing.T) {
	// Level 3 granted earlier stays sticky even though the recorded total
	// only derives level 1.
	f := newFixture(10000, models.StageClosedWon)
	f.profiles.profiles[f.sdrID] = &models.SDRProfile{
		UserID:           f.sdrID,
		SDRLevel:         int(utils.Level3),
		TotalClosedValue: 5000,
	}

	outcome, err := f.service.OnDealWon(context.Background(), f.dealID)
	require.NoError(t, err)
	require.True(t, outcome.Created)
	assert.Equal(t, 3, outcome.Commission.SDRLevel)
	assert.Equal(t, 2.5, outcome.Commission.PlatformCutPercent)
}

func TestOnDealWonLevelUpNotification(t *testing.T) {
	// 25,000 already closed; a 6,000 deal crosses the 30,000 threshold.
	f := newFixture(6000, models.StageClosedWon)
	f.profiles.profiles[f.sdrID] = &models.SDRProfile{
		UserID:           f.sdrID,
		SDRLevel:         int(utils.Level1),
		TotalClosedValue: 25000,
	}

	outcome, err := f.service.OnDealWon(context.Background(), f.dealID)
	require.NoError(t, err)
	require.True(t, outcome.Created)
	assert.True(t, outcome.LeveledUp)
	assert.Equal(t, utils.Level1, outcome.OldLevel)
	assert.Equal(t, utils.Level2, outcome.NewLevel)

	// The commission itself is still computed at the pre-closure level.
	assert.Equal(t, 1, outcome.Commission.SDRLevel)
	assert.Equal(t, 5.0, outcome.Commission.PlatformCutPercent)

	levelUps := f.notifier.ofType(models.NotificationLevelUp)
	require.Len(t, levelUps, 1)
	assert.Equal(t, f.sdrID, levelUps[0].userID)
	assert.Equal(t, 1, levelUps[0].data["old_level"])
	assert.Equal(t, 2, levelUps[0].data["new_level"])
	assert.Equal(t, 31000.0, levelUps[0].data["total_deals_closed"])
	assert.Equal(t, 4.0, levelUps[0].data["new_platform_cut"])
}

func TestOnDealWonNoLevelUpWithinLevel(t *testing.T) {
	f := newFixture(1000, models.StageClosedWon)
	f.profiles.profiles[f.sdrID] = &models.SDRProfile{
		UserID:           f.sdrID,
		SDRLevel:         int(utils.Level1),
		TotalClosedValue: 5000,
	}

	outcome, err := f.service.OnDealWon(context.Background(), f.dealID)
	require.NoError(t, err)
	require.True(t, outcome.Created)
	assert.False(t, outcome.LeveledUp)
	assert.Empty(t, f.notifier.ofType(models.NotificationLevelUp))
}

func TestOnDealWonNotifierFailureDoesNotFail(t *testing.T) {
	f := newFixture(10000, models.StageClosedWon)
	f.notifier.err = errors.New("fcm unavailable")

	outcome, err := f.service.OnDealWon(context.Background(), f.dealID)
	require.NoError(t, err)
	assert.True(t, outcome.Created)
	assert.Len(t, f.commissions.byDeal, 1)
}

func TestOnDealWonProfileFailureKeepsCommission(t *testing.T) {
	f := newFixture(10000, models.StageClosedWon)
	f.profiles.applyErr = errors.New("mongo timeout")

	outcome, err := f.service.OnDealWon(context.Background(), f.dealID)
	require.NoError(t, err)
	assert.True(t, outcome.Created)
	assert.False(t, outcome.LeveledUp)
	assert.Len(t, f.commissions.byDeal, 1)
}

func TestOnDealWonUnknownDeal(t *testing.T) {
	f := newFixture(10000, models.StageClosedWon)

	_, err := f.service.OnDealWon(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOnDealWonMissingWorkspace(t *testing.T) {
	f := newFixture(10000, models.StageClosedWon)
	delete(f.workspaces.workspaces, f.workspaceID)

	_, err := f.service.OnDealWon(context.Background(), f.dealID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, f.commissions.byDeal)
}

func TestOnDealWonInvalidRake(t *testing.T) {
	f := newFixture(10000, models.StageClosedWon)
	f.workspaces.workspaces[f.workspaceID].RakePercent = 120

	_, err := f.service.OnDealWon(context.Background(), f.dealID)
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
	assert.Empty(t, f.commissions.byDeal)
}
