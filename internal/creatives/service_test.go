package creatives

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adforge/adforge-backend/internal/assets"
	"github.com/adforge/adforge-backend/internal/generation"
	"github.com/adforge/adforge-backend/pkg/db/models"
	"github.com/adforge/adforge-backend/pkg/enums"
	pkgerrors "github.com/adforge/adforge-backend/pkg/errors"
	"github.com/adforge/adforge-backend/pkg/logger"
	"github.com/adforge/adforge-backend/pkg/pagination"
)

type fakeRepo struct {
	rows map[uuid.UUID]*models.Creative
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: map[uuid.UUID]*models.Creative{}}
}

func (f *fakeRepo) CreateWithApproval(_ context.Context, creative *models.Creative) (*models.Creative, error) {
	if creative.ID == uuid.Nil {
		creative.ID = uuid.New()
	}
	creative.GenerationCount = 1
	creative.Approval = &models.Approval{ID: uuid.New(), CreativeID: creative.ID}
	f.rows[creative.ID] = creative
	return creative, nil
}

func (f *fakeRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Creative, error) {
	c, ok := f.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copy := *c
	return &copy, nil
}

func (f *fakeRepo) List(_ context.Context, status *enums.CreativeStatus, _ pagination.Params) ([]models.Creative, error) {
	var out []models.Creative
	for _, c := range f.rows {
		if status == nil || matchesStatus(c, *status) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func matchesStatus(c *models.Creative, status enums.CreativeStatus) bool {
	a := c.Approval
	switch status {
	case enums.CreativeStatusPending:
		return !a.Deployed
	case enums.CreativeStatusApproved:
		return a.CreativeApproved && a.RegionalApproved && !a.Deployed
	case enums.CreativeStatusDeployed:
		return a.Deployed
	}
	return false
}

func (f *fakeRepo) ListByIdea(_ context.Context, ideaID uuid.UUID) ([]models.Creative, error) {
	var out []models.Creative
	for _, c := range f.rows {
		if c.IdeaID == ideaID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListAll(_ context.Context) ([]models.Creative, error) {
	var out []models.Creative
	for _, c := range f.rows {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeRepo) RegenerateWithReset(_ context.Context, creative *models.Creative) (*models.Creative, error) {
	existing, ok := f.rows[creative.ID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	existing.FileRef = creative.FileRef
	existing.MimeType = creative.MimeType
	existing.SizeBytes = creative.SizeBytes
	existing.JobID = creative.JobID
	existing.GenerationCount++
	existing.Approval = &models.Approval{ID: existing.Approval.ID, CreativeID: existing.ID}
	copy := *existing
	return &copy, nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.rows, id)
	return nil
}

func (f *fakeRepo) DeleteByIdea(_ context.Context, ideaID uuid.UUID) error {
	for id, c := range f.rows {
		if c.IdeaID == ideaID {
			delete(f.rows, id)
		}
	}
	return nil
}

func (f *fakeRepo) DeleteAll(context.Context) error {
	f.rows = map[uuid.UUID]*models.Creative{}
	return nil
}

type fakeLineage struct {
	ideas  map[uuid.UUID]*models.Idea
	briefs map[uuid.UUID]*models.Brief
}

func newFakeLineage() *fakeLineage {
	return &fakeLineage{
		ideas:  map[uuid.UUID]*models.Idea{},
		briefs: map[uuid.UUID]*models.Brief{},
	}
}

func (f *fakeLineage) addIdea(region string) *models.Idea {
	brief := &models.Brief{ID: uuid.New(), CampaignMessage: "msg"}
	f.briefs[brief.ID] = brief
	idea := &models.Idea{ID: uuid.New(), BriefID: brief.ID, Region: region, Demographic: "18-25", Content: "idea", LanguageCode: "en-US"}
	f.ideas[idea.ID] = idea
	return idea
}

func (f *fakeLineage) Get(_ context.Context, id uuid.UUID) (*models.Idea, error) {
	if idea, ok := f.ideas[id]; ok {
		return idea, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "idea not found")
}

type briefGetter struct{ l *fakeLineage }

func (b briefGetter) Get(_ context.Context, id uuid.UUID) (*models.Brief, error) {
	if brief, ok := b.l.briefs[id]; ok {
		return brief, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "brief not found")
}

type fakeBrand struct{ ctx assets.BrandContext }

func (f fakeBrand) BrandContext(context.Context) assets.BrandContext { return f.ctx }

type fakeGenerator struct {
	requests []generation.CreativeRequest
	err      error
	counter  int
}

func (f *fakeGenerator) GenerateCreative(_ context.Context, req generation.CreativeRequest) (*generation.CreativeResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.requests = append(f.requests, req)
	f.counter++
	return &generation.CreativeResult{
		FileRef:   "creatives/" + string(req.AspectRatio) + ".png",
		MimeType:  "image/png",
		SizeBytes: int64(100 + f.counter),
	}, nil
}

type fakeStore struct {
	deleted   []string
	deleteErr error
}

func (f *fakeStore) Open(string) (io.ReadCloser, error) { return nil, errors.New("not implemented") }

func (f *fakeStore) Delete(ref string) (bool, error) {
	if f.deleteErr != nil {
		return false, f.deleteErr
	}
	f.deleted = append(f.deleted, ref)
	return true, nil
}

type harness struct {
	svc     Service
	repo    *fakeRepo
	lineage *fakeLineage
	gen     *fakeGenerator
	store   *fakeStore
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	repo := newFakeRepo()
	lineage := newFakeLineage()
	gen := &fakeGenerator{}
	store := &fakeStore{}
	svc, err := NewService(repo, lineage, briefGetter{l: lineage}, fakeBrand{}, gen, store,
		logger.New(logger.Options{ServiceName: "test"}))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &harness{svc: svc, repo: repo, lineage: lineage, gen: gen, store: store}
}

func TestGenerateForIdeaProducesAllRatios(t *testing.T) {
	h := newHarness(t)
	idea := h.lineage.addIdea("US")

	out, err := h.svc.GenerateForIdea(context.Background(), idea.ID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 creatives, got %d", len(out))
	}
	seen := map[enums.AspectRatio]bool{}
	for _, c := range out {
		seen[c.AspectRatio] = true
		if c.GenerationCount != 1 {
			t.Fatalf("fresh creative must start at generation 1, got %d", c.GenerationCount)
		}
		if c.Approval == nil || c.Approval.CreativeApproved || c.Approval.RegionalApproved || c.Approval.Deployed {
			t.Fatalf("fresh creative must carry an unapproved approval, got %+v", c.Approval)
		}
	}
	for _, ratio := range enums.AllAspectRatios() {
		if !seen[ratio] {
			t.Fatalf("missing ratio %s", ratio)
		}
	}
}

func TestGenerateForIdeaUnknownIdea(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.GenerateForIdea(context.Background(), uuid.New())
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRegenerateResetsApprovalAndBumpsCounter(t *testing.T) {
	h := newHarness(t)
	idea := h.lineage.addIdea("EU")

	out, err := h.svc.GenerateForIdea(context.Background(), idea.ID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	creative := out[0]
	oldRef := creative.FileRef

	// Simulate a fully approved, deployed creative before regeneration.
	stored := h.repo.rows[creative.ID]
	stored.Approval.CreativeApproved = true
	stored.Approval.RegionalApproved = true
	stored.Approval.Deployed = true

	updated, err := h.svc.Regenerate(context.Background(), creative.ID)
	if err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	if updated.GenerationCount != 2 {
		t.Fatalf("expected generation 2, got %d", updated.GenerationCount)
	}
	if updated.AspectRatio != creative.AspectRatio || updated.IdeaID != creative.IdeaID || updated.ID != creative.ID {
		t.Fatalf("regeneration must preserve identity, got %+v", updated)
	}
	a := updated.Approval
	if a.CreativeApproved || a.RegionalApproved || a.Deployed ||
		a.CreativeApprovedAt != nil || a.RegionalApprovedAt != nil || a.DeployedAt != nil {
		t.Fatalf("approval must fully reset, got %+v", a)
	}
	found := false
	for _, ref := range h.store.deleted {
		if ref == oldRef {
			found = true
		}
	}
	if !found {
		t.Fatalf("old artifact %q should be deleted, got %v", oldRef, h.store.deleted)
	}
}

func TestRegenerateSurvivesArtifactCleanupFailure(t *testing.T) {
	h := newHarness(t)
	idea := h.lineage.addIdea("US")
	out, err := h.svc.GenerateForIdea(context.Background(), idea.ID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	h.store.deleteErr = errors.New("disk gone")
	updated, err := h.svc.Regenerate(context.Background(), out[0].ID)
	if err != nil {
		t.Fatalf("artifact cleanup failure must not fail regeneration: %v", err)
	}
	if updated.GenerationCount != 2 {
		t.Fatalf("expected generation 2, got %d", updated.GenerationCount)
	}
}

func TestListStatusFilter(t *testing.T) {
	h := newHarness(t)
	idea := h.lineage.addIdea("US")
	out, err := h.svc.GenerateForIdea(context.Background(), idea.ID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	h.repo.rows[out[0].ID].Approval.Deployed = true
	h.repo.rows[out[1].ID].Approval.CreativeApproved = true
	h.repo.rows[out[1].ID].Approval.RegionalApproved = true

	deployed := enums.CreativeStatusDeployed
	rows, err := h.svc.List(context.Background(), &deployed, pagination.Params{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 deployed, got %d", len(rows))
	}

	approved := enums.CreativeStatusApproved
	rows, err = h.svc.List(context.Background(), &approved, pagination.Params{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 approved, got %d", len(rows))
	}

	pending := enums.CreativeStatusPending
	rows, err = h.svc.List(context.Background(), &pending, pagination.Params{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 pending, got %d", len(rows))
	}

	bad := enums.CreativeStatus("bogus")
	if _, err := h.svc.List(context.Background(), &bad, pagination.Params{}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestClearAllDeletesRowsAndArtifacts(t *testing.T) {
	h := newHarness(t)
	ideaA := h.lineage.addIdea("US")
	ideaB := h.lineage.addIdea("EU")
	if _, err := h.svc.GenerateForIdea(context.Background(), ideaA.ID); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := h.svc.GenerateForIdea(context.Background(), ideaB.ID); err != nil {
		t.Fatalf("generate: %v", err)
	}

	cleared, err := h.svc.ClearAll(context.Background())
	if err != nil {
		t.Fatalf("clear all: %v", err)
	}
	if cleared != 6 {
		t.Fatalf("expected 6 cleared, got %d", cleared)
	}
	if len(h.repo.rows) != 0 {
		t.Fatalf("queue should be empty")
	}
	if len(h.store.deleted) != 6 {
		t.Fatalf("expected 6 artifact deletions, got %d", len(h.store.deleted))
	}
}

func TestClearAllSurvivesArtifactFailures(t *testing.T) {
	h := newHarness(t)
	idea := h.lineage.addIdea("US")
	if _, err := h.svc.GenerateForIdea(context.Background(), idea.ID); err != nil {
		t.Fatalf("generate: %v", err)
	}

	h.store.deleteErr = errors.New("nfs timeout")
	cleared, err := h.svc.ClearAll(context.Background())
	if err != nil {
		t.Fatalf("artifact failures must not fail queue clear: %v", err)
	}
	if cleared != 3 || len(h.repo.rows) != 0 {
		t.Fatalf("rows must still be cleared")
	}
}

func TestDeleteByIdea(t *testing.T) {
	h := newHarness(t)
	idea := h.lineage.addIdea("US")
	other := h.lineage.addIdea("EU")
	if _, err := h.svc.GenerateForIdea(context.Background(), idea.ID); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := h.svc.GenerateForIdea(context.Background(), other.ID); err != nil {
		t.Fatalf("generate: %v", err)
	}

	if err := h.svc.DeleteByIdea(context.Background(), idea.ID); err != nil {
		t.Fatalf("delete by idea: %v", err)
	}
	if len(h.repo.rows) != 3 {
		t.Fatalf("expected only the other idea's creatives to remain, got %d", len(h.repo.rows))
	}
	for _, c := range h.repo.rows {
		if c.IdeaID != other.ID {
			t.Fatalf("unexpected survivor %+v", c)
		}
	}
}
