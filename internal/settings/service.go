package settings

import (
	"context"
	"fmt"
	"strings"

	"github.com/adforge/adforge-backend/pkg/db"
	"github.com/adforge/adforge-backend/pkg/db/models"
	pkgerrors "github.com/adforge/adforge-backend/pkg/errors"
)

type repository interface {
	List(ctx context.Context) ([]models.Setting, error)
	FindByKey(ctx context.Context, key string) (*models.Setting, error)
	Upsert(ctx context.Context, row *models.Setting) error
	Delete(ctx context.Context, key string) error
}

// Service is the key-value store for provider configuration. Provider
// selection lives under "use_llm"/"use_image_model"; API keys are stored
// under the provider's own name.
type Service interface {
	GetAll(ctx context.Context) (map[string]string, error)
	Value(ctx context.Context, key string) (string, bool, error)
	SetMany(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, key string) error
}

type service struct {
	repo repository
}

// NewService constructs a settings service.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetAll(ctx context.Context) (map[string]string, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list settings")
	}
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Value
	}
	return out, nil
}

// Value is the lenient lookup used by the generation gateway: a missing key
// is not an error.
func (s *service) Value(ctx context.Context, key string) (string, bool, error) {
	if strings.TrimSpace(key) == "" {
		return "", false, pkgerrors.New(pkgerrors.CodeValidation, "setting key is required")
	}
	row, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		if db.IsNotFound(err) {
			return "", false, nil
		}
		return "", false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read setting")
	}
	return row.Value, true, nil
}

func (s *service) SetMany(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "no settings provided")
	}
	for key, value := range values {
		if strings.TrimSpace(key) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "setting key is required")
		}
		if err := s.repo.Upsert(ctx, &models.Setting{Key: key, Value: value}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store setting")
		}
	}
	return nil
}

func (s *service) Delete(ctx context.Context, key string) error {
	if strings.TrimSpace(key) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "setting key is required")
	}
	if err := s.repo.Delete(ctx, key); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete setting")
	}
	return nil
}
