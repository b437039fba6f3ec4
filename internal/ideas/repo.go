package ideas

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adforge/adforge-backend/pkg/db"
	"github.com/adforge/adforge-backend/pkg/db/models"
)

// Repository exposes idea persistence.
type Repository struct {
	client *db.Client
}

// NewRepository constructs an idea repository bound to the shared client.
func NewRepository(client *db.Client) *Repository {
	return &Repository{client: client}
}

func (r *Repository) conn(ctx context.Context) *gorm.DB {
	return r.client.DB().WithContext(ctx)
}

// Create inserts a new idea row.
func (r *Repository) Create(ctx context.Context, idea *models.Idea) (*models.Idea, error) {
	if err := r.conn(ctx).Create(idea).Error; err != nil {
		return nil, err
	}
	return idea, nil
}

// FindByID retrieves a single idea.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Idea, error) {
	var idea models.Idea
	if err := r.conn(ctx).First(&idea, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &idea, nil
}

// ListByBrief returns a brief's ideas in generation order.
func (r *Repository) ListByBrief(ctx context.Context, briefID uuid.UUID) ([]models.Idea, error) {
	var rows []models.Idea
	if err := r.conn(ctx).Where("brief_id = ?", briefID).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ReplaceContent swaps an idea's content and language and bumps the
// generation counter in place. Ownership columns never change.
func (r *Repository) ReplaceContent(ctx context.Context, id uuid.UUID, content, languageCode string) (*models.Idea, error) {
	updates := map[string]any{
		"content":          content,
		"language_code":    languageCode,
		"generation_count": gorm.Expr("generation_count + 1"),
	}
	if err := r.conn(ctx).Model(&models.Idea{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

// Delete removes an idea; owned creatives go with it via cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.conn(ctx).Where("id = ?", id).Delete(&models.Idea{}).Error
}
