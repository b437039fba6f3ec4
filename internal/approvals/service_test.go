package approvals

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adforge/adforge-backend/pkg/db/models"
	pkgerrors "github.com/adforge/adforge-backend/pkg/errors"
)

type fakeRepo struct {
	approvals map[uuid.UUID]*models.Approval // keyed by creative id
	regions   map[uuid.UUID]string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		approvals: map[uuid.UUID]*models.Approval{},
		regions:   map[uuid.UUID]string{},
	}
}

func (f *fakeRepo) add(region string) uuid.UUID {
	creativeID := uuid.New()
	f.approvals[creativeID] = &models.Approval{ID: uuid.New(), CreativeID: creativeID}
	f.regions[creativeID] = region
	return creativeID
}

func (f *fakeRepo) FindByCreativeID(_ context.Context, creativeID uuid.UUID) (*models.Approval, error) {
	a, ok := f.approvals[creativeID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copy := *a
	return &copy, nil
}

func (f *fakeRepo) Save(_ context.Context, approval *models.Approval) error {
	copy := *approval
	f.approvals[approval.CreativeID] = &copy
	return nil
}

func (f *fakeRepo) RegionForCreative(_ context.Context, creativeID uuid.UUID) (string, error) {
	region, ok := f.regions[creativeID]
	if !ok {
		return "", gorm.ErrRecordNotFound
	}
	return region, nil
}

func newTestService(t *testing.T) (Service, *fakeRepo) {
	t.Helper()
	repo := newFakeRepo()
	svc, err := NewService(repo, "US")
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo
}

func TestToggleFlipsFlagAndTimestamp(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	creativeID := repo.add("US")

	approval, err := svc.ToggleCreativeApproval(ctx, creativeID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !approval.CreativeApproved || approval.CreativeApprovedAt == nil {
		t.Fatalf("expected approved with timestamp, got %+v", approval)
	}

	approval, err = svc.ToggleCreativeApproval(ctx, creativeID)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if approval.CreativeApproved || approval.CreativeApprovedAt != nil {
		t.Fatalf("expected flag and timestamp cleared, got %+v", approval)
	}
}

func TestToggleRegionalIndependentOfCreative(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	creativeID := repo.add("EU")

	approval, err := svc.ToggleRegionalApproval(ctx, creativeID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !approval.RegionalApproved || approval.CreativeApproved {
		t.Fatalf("regional toggle must not touch creative flag, got %+v", approval)
	}
}

func TestDeployHomeRegionSkipsRegionalApproval(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	creativeID := repo.add("US")

	if _, err := svc.ToggleCreativeApproval(ctx, creativeID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	approval, err := svc.Deploy(ctx, creativeID)
	if err != nil {
		t.Fatalf("deploy: %v", err)
	}
	if !approval.Deployed || approval.DeployedAt == nil {
		t.Fatalf("expected deployed with timestamp, got %+v", approval)
	}
	if !approval.CreativeApproved {
		t.Fatalf("deploy must leave approval flags untouched")
	}
}

func TestDeployNonHomeRegionRequiresBothApprovals(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	creativeID := repo.add("EU")

	if _, err := svc.ToggleCreativeApproval(ctx, creativeID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, err := svc.Deploy(ctx, creativeID); !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected precondition failure, got %v", err)
	}

	if _, err := svc.ToggleRegionalApproval(ctx, creativeID); err != nil {
		t.Fatalf("toggle regional: %v", err)
	}
	if _, err := svc.Deploy(ctx, creativeID); err != nil {
		t.Fatalf("deploy after both approvals: %v", err)
	}
}

func TestDeployWithoutCreativeApproval(t *testing.T) {
	svc, repo := newTestService(t)
	creativeID := repo.add("US")

	_, err := svc.Deploy(context.Background(), creativeID)
	if !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected precondition failure, got %v", err)
	}
}

func TestDeployedApprovalIsImmutable(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	creativeID := repo.add("US")

	if _, err := svc.ToggleCreativeApproval(ctx, creativeID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, err := svc.Deploy(ctx, creativeID); err != nil {
		t.Fatalf("deploy: %v", err)
	}

	if _, err := svc.ToggleCreativeApproval(ctx, creativeID); !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict on creative toggle, got %v", err)
	}
	if _, err := svc.ToggleRegionalApproval(ctx, creativeID); !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict on regional toggle, got %v", err)
	}
	if _, err := svc.Deploy(ctx, creativeID); !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict on second deploy, got %v", err)
	}
}

func TestUnknownCreative(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.ToggleCreativeApproval(context.Background(), uuid.New())
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestConfigurableHomeRegion(t *testing.T) {
	repo := newFakeRepo()
	svc, err := NewService(repo, "DE")
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()
	creativeID := repo.add("DE")

	if _, err := svc.ToggleCreativeApproval(ctx, creativeID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, err := svc.Deploy(ctx, creativeID); err != nil {
		t.Fatalf("deploy in configured home region: %v", err)
	}

	usCreative := repo.add("US")
	if _, err := svc.ToggleCreativeApproval(ctx, usCreative); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, err := svc.Deploy(ctx, usCreative); !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("US is not home here, expected precondition failure, got %v", err)
	}
}
