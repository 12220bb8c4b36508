// services/commission_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/leadrake/leadrake_backend/models"
	"github.com/leadrake/leadrake_backend/utils"
)

// Operation errors. A duplicate closure trigger is not an error: it surfaces
// as a skipped outcome (reason "already_exists") instead.
var (
	ErrNotFound    = errors.New("not found")
	ErrWriteFailed = errors.New("write failed")
)

// Skip reasons for CommissionOutcome
const (
	SkipNotClosedWon  = "not_closed_won"
	SkipAlreadyExists = "already_exists"
)

// DealStore loads deals for the closure evaluator.
type DealStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Deal, error)
}

// WorkspaceStore loads workspaces for rake lookup.
type WorkspaceStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Workspace, error)
}

// ClosedDealResult reports the profile state around one closed-deal
// application: the level before the update and the (sticky) level after.
type ClosedDealResult struct {
	OldLevel         utils.Level
	NewLevel         utils.Level
	TotalClosedValue float64
}

// SDRProfileStore reads and maintains SDR aggregate state.
// FindByUserID returns (nil, nil) when no profile row exists; absence is a
// legitimate state meaning level 1 with zero closed value.
// ApplyClosedDeal must atomically increment the cumulative closed value and
// raise the stored level to the one derived from the new total, never
// lowering it.
type SDRProfileStore interface {
	FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.SDRProfile, error)
	ApplyClosedDeal(ctx context.Context, workspaceID, userID primitive.ObjectID, dealValue float64) (*ClosedDealResult, error)
}

// CommissionStore persists commissions. Insert reports created=false without
// error when the unique dealId constraint rejected the row, which proves a
// concurrent call already created the commission.
type CommissionStore interface {
	ExistsForDeal(ctx context.Context, dealID primitive.ObjectID) (bool, error)
	Insert(ctx context.Context, commission *models.Commission) (created bool, err error)
}

// NotificationSink delivers in-app notifications. Implementations are
// best-effort; the service logs and swallows their failures.
type NotificationSink interface {
	Send(ctx context.Context, userID, workspaceID primitive.ObjectID, notifType, title, message string, data map[string]interface{}) error
}

// CommissionOutcome is the result of one deal-closure evaluation.
type CommissionOutcome struct {
	Created    bool               `json:"created"`
	SkipReason string             `json:"skipReason,omitempty"`
	Commission *models.Commission `json:"commission,omitempty"`
	LeveledUp  bool               `json:"leveledUp,omitempty"`
	OldLevel   utils.Level        `json:"oldLevel,omitempty"`
	NewLevel   utils.Level        `json:"newLevel,omitempty"`
}

// CommissionService evaluates deal closures and writes commissions at most
// once per deal. It holds no state between calls; every invocation works
// from the stores it is given.
type CommissionService struct {
	Deals       DealStore
	Workspaces  WorkspaceStore
	Profiles    SDRProfileStore
	Commissions CommissionStore
	Notifier    NotificationSink
}

func NewCommissionService(deals DealStore, workspaces WorkspaceStore, profiles SDRProfileStore, commissions CommissionStore, notifier NotificationSink) *CommissionService {
	return &CommissionService{
		Deals:       deals,
		Workspaces:  workspaces,
		Profiles:    profiles,
		Commissions: commissions,
		Notifier:    notifier,
	}
}

// OnDealWon evaluates a deal that may have reached closed_won and creates the
// commission for it if one does not exist yet. The commission insert is the
// single durable commit point; profile bookkeeping and notification fan-out
// happen after it and never roll it back.
//
// Safe to call repeatedly for the same deal: duplicate triggers resolve to
// a skipped outcome, backed by the unique dealId index on commissions.
func (s *CommissionService) OnDealWon(ctx context.Context, dealID primitive.ObjectID) (*CommissionOutcome, error) {
	deal, err := s.Deals.FindByID(ctx, dealID)
	if err != nil {
		return nil, fmt.Errorf("failed to load deal %s: %w", dealID.Hex(), err)
	}
	if deal == nil {
		return nil, fmt.Errorf("%w: deal %s", ErrNotFound, dealID.Hex())
	}

	if deal.Stage != models.StageClosedWon {
		return &CommissionOutcome{SkipReason: SkipNotClosedWon}, nil
	}

	workspace, err := s.Workspaces.FindByID(ctx, deal.WorkspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load workspace %s: %w", deal.WorkspaceID.Hex(), err)
	}
	if workspace == nil {
		return nil, fmt.Errorf("%w: workspace %s", ErrNotFound, deal.WorkspaceID.Hex())
	}

	// Cheap pre-check; the unique index below is the real guarantee.
	exists, err := s.Commissions.ExistsForDeal(ctx, deal.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing commission for deal %s: %w", deal.ID.Hex(), err)
	}
	if exists {
		return &CommissionOutcome{SkipReason: SkipAlreadyExists}, nil
	}

	level, cumulative, err := s.currentLevel(ctx, deal.AssignedTo)
	if err != nil {
		return nil, err
	}

	breakdown, err := utils.ComputeCommission(deal.Value, workspace.RakePercent, level)
	if err != nil {
		return nil, err
	}

	commission := &models.Commission{
		ID:                 primitive.NewObjectID(),
		WorkspaceID:        workspace.ID,
		DealID:             deal.ID,
		SDRID:              deal.AssignedTo,
		DealValue:          deal.Value,
		RakePercent:        workspace.RakePercent,
		RakeAmount:         breakdown.RakeAmount,
		GrossCommission:    breakdown.GrossCommission,
		PlatformCutPercent: breakdown.PlatformCutPercent,
		PlatformCutAmount:  breakdown.PlatformCutAmount,
		SDRPayoutAmount:    breakdown.SDRPayoutAmount,
		SDRLevel:           int(level),
		Status:             models.CommissionStatusPending,
	}

	created, err := s.Commissions.Insert(ctx, commission)
	if err != nil {
		return nil, fmt.Errorf("%w: commission insert for deal %s: %v", ErrWriteFailed, deal.ID.Hex(), err)
	}
	if !created {
		// Unique constraint fired: a concurrent call won the race.
		return &CommissionOutcome{SkipReason: SkipAlreadyExists}, nil
	}

	outcome := &CommissionOutcome{Created: true, Commission: commission}

	// Commission is durable from here on. Everything below is bookkeeping and
	// fan-out; failures are logged and the created outcome stands.
	result, err := s.Profiles.ApplyClosedDeal(ctx, workspace.ID, deal.AssignedTo, deal.Value)
	if err != nil {
		log.Printf("Failed to apply closed deal to SDR profile %s: %v", deal.AssignedTo.Hex(), err)
	} else {
		outcome.OldLevel = result.OldLevel
		outcome.NewLevel = result.NewLevel
		outcome.LeveledUp = utils.DetectLevelUp(result.OldLevel, result.NewLevel)
		cumulative = result.TotalClosedValue
	}

	s.notifyCommissionCreated(ctx, deal, workspace, commission)
	if outcome.LeveledUp {
		s.notifyLevelUp(ctx, deal.AssignedTo, workspace.ID, outcome.OldLevel, outcome.NewLevel, cumulative)
	}

	return outcome, nil
}

// currentLevel resolves the SDR's level at the moment of closure. A missing
// profile row means level 1 with zero cumulative value; a stored level above
// the derived one wins, because granted levels are sticky.
func (s *CommissionService) currentLevel(ctx context.Context, userID primitive.ObjectID) (utils.Level, float64, error) {
	profile, err := s.Profiles.FindByUserID(ctx, userID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to load SDR profile %s: %w", userID.Hex(), err)
	}
	if profile == nil {
		return utils.Level1, 0, nil
	}

	progress, err := utils.LevelFor(profile.TotalClosedValue)
	if err != nil {
		return 0, 0, err
	}

	level := progress.Level
	if profile.SDRLevel != 0 {
		stored, err := utils.ParseLevel(profile.SDRLevel)
		if err != nil {
			return 0, 0, err
		}
		if stored > level {
			level = stored
		}
	}
	return level, profile.TotalClosedValue, nil
}

func (s *CommissionService) notifyCommissionCreated(ctx context.Context, deal *models.Deal, workspace *models.Workspace, commission *models.Commission) {
	ownerMsg := fmt.Sprintf("%s closed. Gross commission $%.2f, rake of $%.2f retained by %s.",
		deal.Title, commission.GrossCommission, commission.RakeAmount, workspace.Name)
	err := s.Notifier.Send(ctx, workspace.OwnerID, workspace.ID,
		models.NotificationCommissionCreated, "Commission created", ownerMsg,
		map[string]interface{}{
			"commissionId":    commission.ID.Hex(),
			"dealId":          deal.ID.Hex(),
			"grossCommission": commission.GrossCommission,
			"rakeAmount":      commission.RakeAmount,
		})
	if err != nil {
		log.Printf("Failed to notify workspace owner %s of commission %s: %v", workspace.OwnerID.Hex(), commission.ID.Hex(), err)
	}

	sdrMsg := fmt.Sprintf("You earned $%.2f on %s (level %d, %.1f%% platform cut).",
		commission.SDRPayoutAmount, deal.Title, commission.SDRLevel, commission.PlatformCutPercent)
	err = s.Notifier.Send(ctx, deal.AssignedTo, workspace.ID,
		models.NotificationCommissionCreated, "Commission earned", sdrMsg,
		map[string]interface{}{
			"commissionId":       commission.ID.Hex(),
			"dealId":             deal.ID.Hex(),
			"sdrPayoutAmount":    commission.SDRPayoutAmount,
			"sdrLevel":           commission.SDRLevel,
			"platformCutPercent": commission.PlatformCutPercent,
		})
	if err != nil {
		log.Printf("Failed to notify SDR %s of commission %s: %v", deal.AssignedTo.Hex(), commission.ID.Hex(), err)
	}
}

func (s *CommissionService) notifyLevelUp(ctx context.Context, userID, workspaceID primitive.ObjectID, oldLevel, newLevel utils.Level, cumulative float64) {
	newCut, err := utils.PlatformCutForLevel(newLevel)
	if err != nil {
		log.Printf("Failed to resolve platform cut for level %d: %v", int(newLevel), err)
		return
	}

	msg := fmt.Sprintf("You reached level %d with $%.2f in closed deals. Platform cut drops to %.1f%%.",
		int(newLevel), cumulative, newCut)
	err = s.Notifier.Send(ctx, userID, workspaceID,
		models.NotificationLevelUp, "Level up!", msg,
		map[string]interface{}{
			"old_level":          int(oldLevel),
			"new_level":          int(newLevel),
			"total_deals_closed": cumulative,
			"new_platform_cut":   newCut,
		})
	if err != nil {
		log.Printf("Failed to send level-up notification to %s: %v", userID.Hex(), err)
	}
}
