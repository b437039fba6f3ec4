package approvals

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/adforge/adforge-backend/pkg/db"
	"github.com/adforge/adforge-backend/pkg/db/models"
	pkgerrors "github.com/adforge/adforge-backend/pkg/errors"
)

type repository interface {
	FindByCreativeID(ctx context.Context, creativeID uuid.UUID) (*models.Approval, error)
	Save(ctx context.Context, approval *models.Approval) error
	RegionForCreative(ctx context.Context, creativeID uuid.UUID) (string, error)
}

// Service is the deployment gate for creatives: two toggleable approval
// stages followed by a terminal deploy transition. A deployed approval is
// immutable until its creative is regenerated or deleted.
type Service interface {
	GetByCreative(ctx context.Context, creativeID uuid.UUID) (*models.Approval, error)
	ToggleCreativeApproval(ctx context.Context, creativeID uuid.UUID) (*models.Approval, error)
	ToggleRegionalApproval(ctx context.Context, creativeID uuid.UUID) (*models.Approval, error)
	Deploy(ctx context.Context, creativeID uuid.UUID) (*models.Approval, error)
}

type service struct {
	repo       repository
	homeRegion string
}

// NewService constructs the approval state machine. homeRegion is exempt
// from the regional-approval deploy requirement.
func NewService(repo repository, homeRegion string) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("approval repository required")
	}
	if homeRegion == "" {
		return nil, fmt.Errorf("home region required")
	}
	return &service{repo: repo, homeRegion: homeRegion}, nil
}

func (s *service) GetByCreative(ctx context.Context, creativeID uuid.UUID) (*models.Approval, error) {
	return s.find(ctx, creativeID)
}

func (s *service) ToggleCreativeApproval(ctx context.Context, creativeID uuid.UUID) (*models.Approval, error) {
	approval, err := s.find(ctx, creativeID)
	if err != nil {
		return nil, err
	}
	if approval.Deployed {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "cannot modify approval, creative already deployed")
	}

	approval.CreativeApproved = !approval.CreativeApproved
	approval.CreativeApprovedAt = timestampFor(approval.CreativeApproved)

	if err := s.repo.Save(ctx, approval); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save approval")
	}
	return approval, nil
}

func (s *service) ToggleRegionalApproval(ctx context.Context, creativeID uuid.UUID) (*models.Approval, error) {
	approval, err := s.find(ctx, creativeID)
	if err != nil {
		return nil, err
	}
	if approval.Deployed {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "cannot modify approval, creative already deployed")
	}

	approval.RegionalApproved = !approval.RegionalApproved
	approval.RegionalApprovedAt = timestampFor(approval.RegionalApproved)

	if err := s.repo.Save(ctx, approval); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save approval")
	}
	return approval, nil
}

// Deploy marks the creative as live. Creative approval is always required;
// regional approval is required for every region except the home region.
// Approval flags are left untouched so the audit trail survives deployment.
func (s *service) Deploy(ctx context.Context, creativeID uuid.UUID) (*models.Approval, error) {
	approval, err := s.find(ctx, creativeID)
	if err != nil {
		return nil, err
	}
	if approval.Deployed {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "creative already deployed")
	}

	region, err := s.repo.RegionForCreative(ctx, creativeID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "creative not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve creative region")
	}

	if !approval.CreativeApproved {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "creative approval required before deployment")
	}
	if region != s.homeRegion && !approval.RegionalApproved {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "both creative and regional approvals required before deployment")
	}

	now := time.Now().UTC()
	approval.Deployed = true
	approval.DeployedAt = &now

	if err := s.repo.Save(ctx, approval); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save approval")
	}
	return approval, nil
}

func (s *service) find(ctx context.Context, creativeID uuid.UUID) (*models.Approval, error) {
	if creativeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "creative id is required")
	}
	approval, err := s.repo.FindByCreativeID(ctx, creativeID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "approval record not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load approval")
	}
	return approval, nil
}

func timestampFor(enabled bool) *time.Time {
	if !enabled {
		return nil
	}
	now := time.Now().UTC()
	return &now
}
