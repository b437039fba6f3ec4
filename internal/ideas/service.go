package ideas

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/adforge/adforge-backend/internal/generation"
	"github.com/adforge/adforge-backend/pkg/db"
	"github.com/adforge/adforge-backend/pkg/db/models"
	pkgerrors "github.com/adforge/adforge-backend/pkg/errors"
)

type repository interface {
	Create(ctx context.Context, idea *models.Idea) (*models.Idea, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Idea, error)
	ListByBrief(ctx context.Context, briefID uuid.UUID) ([]models.Idea, error)
	ReplaceContent(ctx context.Context, id uuid.UUID, content, languageCode string) (*models.Idea, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type briefReader interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Brief, error)
}

type generator interface {
	GenerateIdea(ctx context.Context, req generation.IdeaRequest) (*generation.IdeaResult, error)
}

type creativeCleaner interface {
	DeleteByIdea(ctx context.Context, ideaID uuid.UUID) error
}

// CreateInput is a single generated concept to record against a brief.
type CreateInput struct {
	BriefID      uuid.UUID
	Region       string
	Demographic  string
	Content      string
	LanguageCode string
}

// Service owns the idea lifecycle. Ideas are born through brief execution,
// can be regenerated in place or duplicated as independent siblings, and
// drag their creatives along when deleted.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Idea, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Idea, error)
	ListByBrief(ctx context.Context, briefID uuid.UUID) ([]models.Idea, error)
	Regenerate(ctx context.Context, id uuid.UUID) (*models.Idea, error)
	Duplicate(ctx context.Context, id uuid.UUID) (*models.Idea, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo      repository
	briefs    briefReader
	gen       generator
	creatives creativeCleaner
}

// NewService constructs an idea service.
func NewService(repo repository, briefs briefReader, gen generator, creatives creativeCleaner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("idea repository required")
	}
	if briefs == nil {
		return nil, fmt.Errorf("brief reader required")
	}
	if gen == nil {
		return nil, fmt.Errorf("generator required")
	}
	if creatives == nil {
		return nil, fmt.Errorf("creative cleaner required")
	}
	return &service{repo: repo, briefs: briefs, gen: gen, creatives: creatives}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Idea, error) {
	if input.BriefID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "brief id is required")
	}
	if strings.TrimSpace(input.Region) == "" || strings.TrimSpace(input.Demographic) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "region and demographic are required")
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "idea content is required")
	}

	languageCode := input.LanguageCode
	if languageCode == "" {
		languageCode = generation.LanguageForRegion(input.Region)
	}

	idea := &models.Idea{
		BriefID:      input.BriefID,
		Region:       input.Region,
		Demographic:  input.Demographic,
		Content:      input.Content,
		LanguageCode: languageCode,
	}
	created, err := s.repo.Create(ctx, idea)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist idea")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Idea, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "idea id is required")
	}
	idea, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "idea not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load idea")
	}
	return idea, nil
}

func (s *service) ListByBrief(ctx context.Context, briefID uuid.UUID) ([]models.Idea, error) {
	rows, err := s.repo.ListByBrief(ctx, briefID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list ideas")
	}
	return rows, nil
}

// Regenerate produces fresh copy for the same (region, demographic) slot.
// The row keeps its id and its creatives; only content, language and the
// generation counter move.
func (s *service) Regenerate(ctx context.Context, id uuid.UUID) (*models.Idea, error) {
	idea, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	brief, err := s.briefs.Get(ctx, idea.BriefID)
	if err != nil {
		return nil, err
	}

	result, err := s.gen.GenerateIdea(ctx, generation.IdeaRequest{
		BriefContent:    brief.Content,
		CampaignMessage: brief.CampaignMessage,
		Region:          idea.Region,
		Demographic:     idea.Demographic,
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.ReplaceContent(ctx, idea.ID, result.Content, result.LanguageCode)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "regenerate idea")
	}
	return updated, nil
}

// Duplicate clones an idea into an independent sibling under the same brief.
// The copy starts a lineage of its own: generation counter at one, no
// creatives attached.
func (s *service) Duplicate(ctx context.Context, id uuid.UUID) (*models.Idea, error) {
	idea, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	clone := &models.Idea{
		BriefID:      idea.BriefID,
		Region:       idea.Region,
		Demographic:  idea.Demographic,
		Content:      idea.Content,
		LanguageCode: idea.LanguageCode,
	}
	created, err := s.repo.Create(ctx, clone)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "duplicate idea")
	}
	return created, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.creatives.DeleteByIdea(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete idea")
	}
	return nil
}
