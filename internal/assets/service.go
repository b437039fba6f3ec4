package assets

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/adforge/adforge-backend/pkg/db"
	"github.com/adforge/adforge-backend/pkg/db/models"
	"github.com/adforge/adforge-backend/pkg/enums"
	pkgerrors "github.com/adforge/adforge-backend/pkg/errors"
	"github.com/adforge/adforge-backend/pkg/logger"
	"github.com/adforge/adforge-backend/pkg/pagination"
)

const assetScope = "assets"

var allowedAssetMimeTypes = []string{"image/png", "image/jpeg"}

type repository interface {
	Create(ctx context.Context, asset *models.Asset) (*models.Asset, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Asset, error)
	List(ctx context.Context, assetType *enums.AssetType, page pagination.Params) ([]models.Asset, error)
	FirstByType(ctx context.Context, assetType enums.AssetType) (*models.Asset, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type artifactStore interface {
	Save(scope, filename string, r io.Reader) (string, int64, error)
	Open(ref string) (io.ReadCloser, error)
	Delete(ref string) (bool, error)
}

// UploadInput models a multipart asset upload.
type UploadInput struct {
	AssetType   enums.AssetType
	Filename    string
	MimeType    string
	SizeBytes   int64
	Body        io.Reader
	BrandColors []string
}

// BrandContext is the read-only brand information fed into image generation.
type BrandContext struct {
	Colors  []string
	LogoRef string
}

// RegisterInput records an artifact that already lives in the store, such as
// an auto-generated brand logo or product shot.
type RegisterInput struct {
	AssetType     enums.AssetType
	Filename      string
	FileRef       string
	MimeType      string
	SizeBytes     int64
	AutoGenerated bool
	BriefContent  *string
}

// Service manages brand and product reference images.
type Service interface {
	Upload(ctx context.Context, input UploadInput) (*models.Asset, error)
	Register(ctx context.Context, input RegisterInput) (*models.Asset, error)
	HasType(ctx context.Context, assetType enums.AssetType) (bool, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Asset, error)
	OpenFile(ctx context.Context, id uuid.UUID) (io.ReadCloser, *models.Asset, error)
	List(ctx context.Context, assetType *enums.AssetType, page pagination.Params) ([]models.Asset, error)
	Delete(ctx context.Context, id uuid.UUID) error
	BrandContext(ctx context.Context) BrandContext
}

type service struct {
	repo           repository
	store          artifactStore
	maxUploadBytes int64
	logg           *logger.Logger
}

// NewService constructs an asset service.
func NewService(repo repository, store artifactStore, maxUploadMB int, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("asset repository required")
	}
	if store == nil {
		return nil, fmt.Errorf("artifact store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if maxUploadMB <= 0 {
		maxUploadMB = 10
	}
	return &service{
		repo:           repo,
		store:          store,
		maxUploadBytes: int64(maxUploadMB) * 1024 * 1024,
		logg:           logg,
	}, nil
}

func (s *service) Upload(ctx context.Context, input UploadInput) (*models.Asset, error) {
	if !input.AssetType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid asset type")
	}
	filename := strings.TrimSpace(input.Filename)
	if filename == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "filename is required")
	}
	if input.Body == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file body is required")
	}
	if input.SizeBytes > s.maxUploadBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("file exceeds the %d byte upload limit", s.maxUploadBytes))
	}
	if !isAllowedMime(input.MimeType) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "only png and jpeg uploads are accepted")
	}

	// Cap the read even when the declared size lies.
	ref, size, err := s.store.Save(assetScope, filename, io.LimitReader(input.Body, s.maxUploadBytes+1))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store asset artifact")
	}
	if size > s.maxUploadBytes {
		s.deleteArtifact(ctx, ref)
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("file exceeds the %d byte upload limit", s.maxUploadBytes))
	}

	asset := &models.Asset{
		AssetType:   input.AssetType,
		Filename:    filename,
		FileRef:     ref,
		MimeType:    input.MimeType,
		SizeBytes:   size,
		BrandColors: input.BrandColors,
	}
	if _, err := s.repo.Create(ctx, asset); err != nil {
		s.deleteArtifact(ctx, ref)
		if db.IsUniqueViolation(err, "assets_file_ref_key") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "asset already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist asset")
	}
	return asset, nil
}

// Register persists a record for an artifact already written to the store.
func (s *service) Register(ctx context.Context, input RegisterInput) (*models.Asset, error) {
	if !input.AssetType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid asset type")
	}
	if input.FileRef == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file ref is required")
	}

	asset := &models.Asset{
		AssetType:     input.AssetType,
		Filename:      input.Filename,
		FileRef:       input.FileRef,
		MimeType:      input.MimeType,
		SizeBytes:     input.SizeBytes,
		AutoGenerated: input.AutoGenerated,
		BriefContent:  input.BriefContent,
	}
	if _, err := s.repo.Create(ctx, asset); err != nil {
		if db.IsUniqueViolation(err, "assets_file_ref_key") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "asset already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist asset")
	}
	return asset, nil
}

// HasType reports whether at least one asset of the given type exists.
func (s *service) HasType(ctx context.Context, assetType enums.AssetType) (bool, error) {
	_, err := s.repo.FirstByType(ctx, assetType)
	if err != nil {
		if db.IsNotFound(err) {
			return false, nil
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check asset type")
	}
	return true, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Asset, error) {
	asset, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "asset not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load asset")
	}
	return asset, nil
}

func (s *service) OpenFile(ctx context.Context, id uuid.UUID) (io.ReadCloser, *models.Asset, error) {
	asset, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.store.Open(asset.FileRef)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "asset artifact missing")
	}
	return rc, asset, nil
}

func (s *service) List(ctx context.Context, assetType *enums.AssetType, page pagination.Params) ([]models.Asset, error) {
	if assetType != nil && !assetType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid asset type")
	}
	rows, err := s.repo.List(ctx, assetType, pagination.Normalize(page))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list assets")
	}
	return rows, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	asset, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete asset")
	}
	s.deleteArtifact(ctx, asset.FileRef)
	return nil
}

// BrandContext returns the first brand asset's colors and logo ref. Lookup
// failures degrade to an empty context; generation proceeds without branding.
func (s *service) BrandContext(ctx context.Context) BrandContext {
	asset, err := s.repo.FirstByType(ctx, enums.AssetTypeBrand)
	if err != nil {
		if !db.IsNotFound(err) {
			s.logg.Warn(ctx, "brand asset lookup failed")
		}
		return BrandContext{}
	}
	return BrandContext{Colors: asset.BrandColors, LogoRef: asset.FileRef}
}

func (s *service) deleteArtifact(ctx context.Context, ref string) {
	if _, err := s.store.Delete(ref); err != nil {
		s.logg.Error(s.logg.WithField(ctx, "file_ref", ref), "asset artifact cleanup failed", err)
	}
}

func isAllowedMime(mimeType string) bool {
	for _, candidate := range allowedAssetMimeTypes {
		if strings.EqualFold(candidate, mimeType) {
			return true
		}
	}
	return false
}
