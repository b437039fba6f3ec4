package creatives

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/adforge/adforge-backend/internal/assets"
	"github.com/adforge/adforge-backend/internal/generation"
	"github.com/adforge/adforge-backend/pkg/db"
	"github.com/adforge/adforge-backend/pkg/db/models"
	"github.com/adforge/adforge-backend/pkg/enums"
	pkgerrors "github.com/adforge/adforge-backend/pkg/errors"
	"github.com/adforge/adforge-backend/pkg/logger"
	"github.com/adforge/adforge-backend/pkg/pagination"
)

type repository interface {
	CreateWithApproval(ctx context.Context, creative *models.Creative) (*models.Creative, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Creative, error)
	List(ctx context.Context, status *enums.CreativeStatus, page pagination.Params) ([]models.Creative, error)
	ListByIdea(ctx context.Context, ideaID uuid.UUID) ([]models.Creative, error)
	ListAll(ctx context.Context) ([]models.Creative, error)
	RegenerateWithReset(ctx context.Context, creative *models.Creative) (*models.Creative, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByIdea(ctx context.Context, ideaID uuid.UUID) error
	DeleteAll(ctx context.Context) error
}

type ideaReader interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Idea, error)
}

type briefReader interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Brief, error)
}

type brandProvider interface {
	BrandContext(ctx context.Context) assets.BrandContext
}

type generator interface {
	GenerateCreative(ctx context.Context, req generation.CreativeRequest) (*generation.CreativeResult, error)
}

type artifactStore interface {
	Open(ref string) (io.ReadCloser, error)
	Delete(ref string) (bool, error)
}

// Service owns the creative lifecycle: batch generation from an idea,
// regeneration with approval reset, status-filtered listing, and the global
// queue clear used before a brief execution.
type Service interface {
	GenerateForIdea(ctx context.Context, ideaID uuid.UUID) ([]models.Creative, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Creative, error)
	OpenFile(ctx context.Context, id uuid.UUID) (io.ReadCloser, *models.Creative, error)
	List(ctx context.Context, status *enums.CreativeStatus, page pagination.Params) ([]models.Creative, error)
	ListByIdea(ctx context.Context, ideaID uuid.UUID) ([]models.Creative, error)
	Regenerate(ctx context.Context, id uuid.UUID) (*models.Creative, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByIdea(ctx context.Context, ideaID uuid.UUID) error
	ClearAll(ctx context.Context) (int, error)
}

type service struct {
	repo   repository
	ideas  ideaReader
	briefs briefReader
	brand  brandProvider
	gen    generator
	store  artifactStore
	logg   *logger.Logger
}

// NewService constructs a creative service.
func NewService(repo repository, ideas ideaReader, briefs briefReader, brand brandProvider, gen generator, store artifactStore, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("creative repository required")
	}
	if ideas == nil || briefs == nil {
		return nil, fmt.Errorf("idea and brief readers required")
	}
	if gen == nil {
		return nil, fmt.Errorf("generator required")
	}
	if store == nil {
		return nil, fmt.Errorf("artifact store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:   repo,
		ideas:  ideas,
		briefs: briefs,
		brand:  brand,
		gen:    gen,
		store:  store,
		logg:   logg,
	}, nil
}

// GenerateForIdea renders one creative per aspect ratio for the idea, each
// with a fresh approval record.
func (s *service) GenerateForIdea(ctx context.Context, ideaID uuid.UUID) ([]models.Creative, error) {
	idea, brief, err := s.lineage(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	brandCtx := s.brandContext(ctx)

	out := make([]models.Creative, 0, len(enums.AllAspectRatios()))
	for _, ratio := range enums.AllAspectRatios() {
		result, err := s.gen.GenerateCreative(ctx, s.buildRequest(idea, brief, brandCtx, ratio))
		if err != nil {
			return nil, err
		}
		creative := &models.Creative{
			IdeaID:      idea.ID,
			FileRef:     result.FileRef,
			MimeType:    result.MimeType,
			SizeBytes:   result.SizeBytes,
			JobID:       result.JobID,
			AspectRatio: ratio,
		}
		if _, err := s.repo.CreateWithApproval(ctx, creative); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist creative")
		}
		out = append(out, *creative)
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Creative, error) {
	creative, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "creative not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load creative")
	}
	return creative, nil
}

func (s *service) OpenFile(ctx context.Context, id uuid.UUID) (io.ReadCloser, *models.Creative, error) {
	creative, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.store.Open(creative.FileRef)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "creative artifact missing")
	}
	return rc, creative, nil
}

func (s *service) List(ctx context.Context, status *enums.CreativeStatus, page pagination.Params) ([]models.Creative, error) {
	if status != nil && !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}
	rows, err := s.repo.List(ctx, status, pagination.Normalize(page))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list creatives")
	}
	return rows, nil
}

func (s *service) ListByIdea(ctx context.Context, ideaID uuid.UUID) ([]models.Creative, error) {
	rows, err := s.repo.ListByIdea(ctx, ideaID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list creatives by idea")
	}
	return rows, nil
}

// Regenerate renders a replacement artifact at the creative's existing
// aspect ratio. The row keeps its id, idea and ratio; the generation counter
// bumps and the approval resets fully, even if it was deployed. The old
// artifact is disposed of best-effort once the record update sticks.
func (s *service) Regenerate(ctx context.Context, id uuid.UUID) (*models.Creative, error) {
	creative, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	ctx = s.logg.WithCreativeID(ctx, creative.ID.String())
	idea, brief, err := s.lineage(ctx, creative.IdeaID)
	if err != nil {
		return nil, err
	}

	result, err := s.gen.GenerateCreative(ctx, s.buildRequest(idea, brief, s.brandContext(ctx), creative.AspectRatio))
	if err != nil {
		return nil, err
	}

	oldRef := creative.FileRef
	creative.FileRef = result.FileRef
	creative.MimeType = result.MimeType
	creative.SizeBytes = result.SizeBytes
	creative.JobID = result.JobID

	updated, err := s.repo.RegenerateWithReset(ctx, creative)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "regenerate creative")
	}
	s.deleteArtifact(ctx, oldRef)
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	creative, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	ctx = s.logg.WithCreativeID(ctx, creative.ID.String())
	s.deleteArtifact(ctx, creative.FileRef)
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete creative")
	}
	return nil
}

func (s *service) DeleteByIdea(ctx context.Context, ideaID uuid.UUID) error {
	rows, err := s.repo.ListByIdea(ctx, ideaID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list creatives by idea")
	}
	for _, c := range rows {
		s.deleteArtifact(ctx, c.FileRef)
	}
	if err := s.repo.DeleteByIdea(ctx, ideaID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete creatives by idea")
	}
	return nil
}

// ClearAll empties the entire creative queue, system-wide. Artifact
// deletions are best-effort and aggregated; only the row deletion can fail
// the call. Returns the number of rows cleared.
func (s *service) ClearAll(ctx context.Context) (int, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list creatives")
	}

	var artifactErrs error
	for _, c := range rows {
		if _, err := s.store.Delete(c.FileRef); err != nil {
			artifactErrs = multierr.Append(artifactErrs, fmt.Errorf("delete %s: %w", c.FileRef, err))
		}
	}
	if artifactErrs != nil {
		s.logg.Error(ctx, "queue clear left orphaned artifacts", artifactErrs)
	}

	if err := s.repo.DeleteAll(ctx); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear creative queue")
	}
	return len(rows), nil
}

func (s *service) lineage(ctx context.Context, ideaID uuid.UUID) (*models.Idea, *models.Brief, error) {
	idea, err := s.ideas.Get(ctx, ideaID)
	if err != nil {
		return nil, nil, err
	}
	brief, err := s.briefs.Get(ctx, idea.BriefID)
	if err != nil {
		return nil, nil, err
	}
	return idea, brief, nil
}

func (s *service) brandContext(ctx context.Context) assets.BrandContext {
	if s.brand == nil {
		return assets.BrandContext{}
	}
	return s.brand.BrandContext(ctx)
}

func (s *service) buildRequest(idea *models.Idea, brief *models.Brief, brandCtx assets.BrandContext, ratio enums.AspectRatio) generation.CreativeRequest {
	var brandName string
	if brief.Brand != nil {
		brandName = *brief.Brand
	}
	return generation.CreativeRequest{
		IdeaContent:     idea.Content,
		CampaignMessage: brief.CampaignMessage,
		Region:          idea.Region,
		Demographic:     idea.Demographic,
		AspectRatio:     ratio,
		BrandColors:     brandCtx.Colors,
		LanguageCode:    idea.LanguageCode,
		BrandName:       brandName,
		BrandLogoRef:    brandCtx.LogoRef,
	}
}

func (s *service) deleteArtifact(ctx context.Context, ref string) {
	if _, err := s.store.Delete(ref); err != nil {
		s.logg.Error(s.logg.WithField(ctx, "file_ref", ref), "creative artifact cleanup failed", err)
	}
}
