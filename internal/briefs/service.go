package briefs

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/adforge/adforge-backend/internal/assets"
	"github.com/adforge/adforge-backend/internal/documents"
	"github.com/adforge/adforge-backend/internal/generation"
	"github.com/adforge/adforge-backend/pkg/db"
	"github.com/adforge/adforge-backend/pkg/db/models"
	"github.com/adforge/adforge-backend/pkg/enums"
	pkgerrors "github.com/adforge/adforge-backend/pkg/errors"
	"github.com/adforge/adforge-backend/pkg/logger"
	"github.com/adforge/adforge-backend/pkg/pagination"
)

const (
	briefScope          = "briefs"
	maxCampaignMessage  = 500
	autoAssetRegion     = "US"
	autoAssetDemo       = "General"
	autoAssetAspect     = enums.AspectRatioSquare
	autoAssetLanguage   = "en-US"
	maxProductDescChars = 300
)

type repository interface {
	Create(ctx context.Context, brief *models.Brief) (*models.Brief, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Brief, error)
	List(ctx context.Context, page pagination.Params) ([]models.Brief, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type artifactStore interface {
	SaveBytes(scope, filename string, data []byte) (string, int64, error)
	Delete(ref string) (bool, error)
}

type assetCatalog interface {
	HasType(ctx context.Context, assetType enums.AssetType) (bool, error)
	Register(ctx context.Context, input assets.RegisterInput) (*models.Asset, error)
}

type imageGenerator interface {
	GenerateCreative(ctx context.Context, req generation.CreativeRequest) (*generation.CreativeResult, error)
}

type ideaLister interface {
	ListByBrief(ctx context.Context, briefID uuid.UUID) ([]models.Idea, error)
}

type creativeCleaner interface {
	DeleteByIdea(ctx context.Context, ideaID uuid.UUID) error
}

// DocumentInput is an uploaded brief document.
type DocumentInput struct {
	Filename string
	Body     io.Reader
}

// CreateInput models a brief submission. Content may come directly or from
// an attached document; exactly one of the two is required.
type CreateInput struct {
	Brand           *string
	ProductName     *string
	Content         string
	CampaignMessage string
	Regions         []string
	Demographics    []string
	Document        *DocumentInput
}

// Service owns brief intake and teardown. Briefs are immutable once created;
// deletion takes the whole idea/creative/approval tree with it.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Brief, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Brief, error)
	List(ctx context.Context, page pagination.Params) ([]models.Brief, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo      repository
	store     artifactStore
	catalog   assetCatalog
	gen       imageGenerator
	ideas     ideaLister
	creatives creativeCleaner
	logg      *logger.Logger
}

// NewService constructs a brief service.
func NewService(repo repository, store artifactStore, catalog assetCatalog, gen imageGenerator, ideas ideaLister, creatives creativeCleaner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("brief repository required")
	}
	if store == nil {
		return nil, fmt.Errorf("artifact store required")
	}
	if ideas == nil || creatives == nil {
		return nil, fmt.Errorf("idea lister and creative cleaner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:      repo,
		store:     store,
		catalog:   catalog,
		gen:       gen,
		ideas:     ideas,
		creatives: creatives,
		logg:      logg,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Brief, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	brief := &models.Brief{
		Brand:           input.Brand,
		ProductName:     input.ProductName,
		Content:         input.Content,
		CampaignMessage: input.CampaignMessage,
		Regions:         input.Regions,
		Demographics:    input.Demographics,
		SourceType:      enums.BriefSourceText,
	}

	if input.Document != nil {
		if err := s.applyDocument(ctx, brief, input.Document); err != nil {
			return nil, err
		}
	}

	if _, err := s.repo.Create(ctx, brief); err != nil {
		if brief.SourceRef != nil {
			s.deleteArtifact(ctx, *brief.SourceRef)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist brief")
	}

	s.ensureGeneratedAssets(ctx, brief)
	return brief, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Brief, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "brief id is required")
	}
	brief, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "brief not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load brief")
	}
	return brief, nil
}

func (s *service) List(ctx context.Context, page pagination.Params) ([]models.Brief, error) {
	rows, err := s.repo.List(ctx, pagination.Normalize(page))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list briefs")
	}
	return rows, nil
}

// Delete removes the brief and every descendant. Creative artifacts are
// cleaned per idea before the row cascade fires.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	brief, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	ideas, err := s.ideas.ListByBrief(ctx, id)
	if err != nil {
		return err
	}
	for _, idea := range ideas {
		if err := s.creatives.DeleteByIdea(ctx, idea.ID); err != nil {
			return err
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete brief")
	}
	if brief.SourceRef != nil {
		s.deleteArtifact(ctx, *brief.SourceRef)
	}
	return nil
}

func validateInput(input CreateInput) error {
	if strings.TrimSpace(input.CampaignMessage) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "campaign message is required")
	}
	if len(input.CampaignMessage) > maxCampaignMessage {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("campaign message exceeds %d characters", maxCampaignMessage))
	}
	if len(input.Regions) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one region is required")
	}
	if len(input.Demographics) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one demographic is required")
	}
	if strings.TrimSpace(input.Content) == "" && input.Document == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "either content or a document is required")
	}
	return nil
}

// applyDocument stores the upload, extracts its text as the brief content and
// scrapes brand/product names when the caller left them blank.
func (s *service) applyDocument(ctx context.Context, brief *models.Brief, doc *DocumentInput) error {
	data, err := io.ReadAll(doc.Body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read document")
	}

	text, err := documents.ExtractText(doc.Filename, bytes.NewReader(data))
	if err != nil {
		return err
	}

	ref, _, err := s.store.SaveBytes(briefScope, doc.Filename, data)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store brief document")
	}

	if brief.Brand == nil || brief.ProductName == nil {
		meta := documents.ExtractMetadata(text)
		if brief.Brand == nil && meta.Brand != "" {
			brief.Brand = &meta.Brand
		}
		if brief.ProductName == nil && meta.ProductName != "" {
			brief.ProductName = &meta.ProductName
		}
	}

	brief.Content = text
	brief.SourceType = enums.BriefSourceDocument
	brief.SourceFilename = &doc.Filename
	brief.SourceRef = &ref
	return nil
}

// ensureGeneratedAssets renders a placeholder brand logo and product shot
// when none exist yet. Strictly best-effort; a failure is logged and the
// brief creation stands.
func (s *service) ensureGeneratedAssets(ctx context.Context, brief *models.Brief) {
	if s.catalog == nil || s.gen == nil {
		return
	}

	brandName := "Brand"
	if brief.Brand != nil && *brief.Brand != "" {
		brandName = *brief.Brand
	}
	productName := "Product"
	if brief.ProductName != nil && *brief.ProductName != "" {
		productName = *brief.ProductName
	}

	s.ensureAsset(ctx, brief, enums.AssetTypeBrand, brandName+"_logo.png", fmt.Sprintf(
		"Professional minimalist logo design for brand '%s'. Clean, modern, corporate style. "+
			"Simple icon or text-based logo. High contrast, suitable for marketing materials. "+
			"No background, transparent or white background.", brandName))

	description := brief.Content
	if description == "" {
		description = productName + " product"
	}
	if len(description) > maxProductDescChars {
		description = description[:maxProductDescChars]
	}
	s.ensureAsset(ctx, brief, enums.AssetTypeProduct, productName+"_image.png", fmt.Sprintf(
		"Professional high-quality product photography. Product: %s. Description: %s. "+
			"Studio lighting, clean white background, commercial advertising style. "+
			"Show the product clearly with professional presentation. Make it photorealistic and appealing.",
		productName, description))
}

func (s *service) ensureAsset(ctx context.Context, brief *models.Brief, assetType enums.AssetType, filename, prompt string) {
	exists, err := s.catalog.HasType(ctx, assetType)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "asset_type", assetType), "asset lookup failed, skipping auto-generation")
		return
	}
	if exists {
		return
	}

	result, err := s.gen.GenerateCreative(ctx, generation.CreativeRequest{
		IdeaContent:  prompt,
		Region:       autoAssetRegion,
		Demographic:  autoAssetDemo,
		AspectRatio:  autoAssetAspect,
		LanguageCode: autoAssetLanguage,
	})
	if err != nil {
		s.logg.Error(s.logg.WithField(ctx, "asset_type", assetType), "asset auto-generation failed", err)
		return
	}

	content := brief.Content
	if _, err := s.catalog.Register(ctx, assets.RegisterInput{
		AssetType:     assetType,
		Filename:      filename,
		FileRef:       result.FileRef,
		MimeType:      result.MimeType,
		SizeBytes:     result.SizeBytes,
		AutoGenerated: true,
		BriefContent:  &content,
	}); err != nil {
		s.logg.Error(s.logg.WithField(ctx, "asset_type", assetType), "asset registration failed", err)
		s.deleteArtifact(ctx, result.FileRef)
	}
}

func (s *service) deleteArtifact(ctx context.Context, ref string) {
	if _, err := s.store.Delete(ref); err != nil {
		s.logg.Error(s.logg.WithField(ctx, "file_ref", ref), "brief artifact cleanup failed", err)
	}
}
