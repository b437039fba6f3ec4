package creatives

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adforge/adforge-backend/pkg/db"
	"github.com/adforge/adforge-backend/pkg/db/models"
	"github.com/adforge/adforge-backend/pkg/enums"
	"github.com/adforge/adforge-backend/pkg/pagination"
)

// Repository exposes creative persistence. The creative+approval pair is
// written atomically; a creative never exists without its approval row.
type Repository struct {
	client *db.Client
}

// NewRepository constructs a creative repository bound to the shared client.
func NewRepository(client *db.Client) *Repository {
	return &Repository{client: client}
}

func (r *Repository) conn(ctx context.Context) *gorm.DB {
	return r.client.DB().WithContext(ctx)
}

// CreateWithApproval inserts the creative and its fresh approval in one
// transaction.
func (r *Repository) CreateWithApproval(ctx context.Context, creative *models.Creative) (*models.Creative, error) {
	err := r.client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(creative).Error; err != nil {
			return err
		}
		approval := &models.Approval{CreativeID: creative.ID}
		if err := tx.Create(approval).Error; err != nil {
			return err
		}
		creative.Approval = approval
		return nil
	})
	if err != nil {
		return nil, err
	}
	return creative, nil
}

// FindByID retrieves a creative with its approval.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Creative, error) {
	var c models.Creative
	if err := r.conn(ctx).Preload("Approval").First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns creatives newest first, optionally filtered by approval status.
func (r *Repository) List(ctx context.Context, status *enums.CreativeStatus, page pagination.Params) ([]models.Creative, error) {
	q := r.conn(ctx).Model(&models.Creative{}).
		Joins("JOIN approvals ON approvals.creative_id = creatives.id").
		Preload("Approval")

	if status != nil {
		switch *status {
		case enums.CreativeStatusPending:
			q = q.Where("approvals.deployed = ?", false)
		case enums.CreativeStatusApproved:
			q = q.Where("approvals.creative_approved = ? AND approvals.regional_approved = ? AND approvals.deployed = ?",
				true, true, false)
		case enums.CreativeStatusDeployed:
			q = q.Where("approvals.deployed = ?", true)
		}
	}

	var rows []models.Creative
	if err := q.Order("creatives.created_at DESC").Offset(page.Skip).Limit(page.Limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByIdea returns every creative owned by an idea.
func (r *Repository) ListByIdea(ctx context.Context, ideaID uuid.UUID) ([]models.Creative, error) {
	var rows []models.Creative
	if err := r.conn(ctx).Preload("Approval").Where("idea_id = ?", ideaID).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListAll returns every live creative. Used by the queue-clear step.
func (r *Repository) ListAll(ctx context.Context) ([]models.Creative, error) {
	var rows []models.Creative
	if err := r.conn(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// RegenerateWithReset applies the new artifact fields, bumps the generation
// counter and resets the paired approval, all in one transaction.
func (r *Repository) RegenerateWithReset(ctx context.Context, creative *models.Creative) (*models.Creative, error) {
	err := r.client.WithTx(ctx, func(tx *gorm.DB) error {
		updates := map[string]any{
			"file_ref":         creative.FileRef,
			"mime_type":        creative.MimeType,
			"size_bytes":       creative.SizeBytes,
			"job_id":           creative.JobID,
			"generation_count": gorm.Expr("generation_count + 1"),
		}
		if err := tx.Model(&models.Creative{}).Where("id = ?", creative.ID).Updates(updates).Error; err != nil {
			return err
		}
		reset := map[string]any{
			"creative_approved":    false,
			"creative_approved_at": nil,
			"regional_approved":    false,
			"regional_approved_at": nil,
			"deployed":             false,
			"deployed_at":          nil,
		}
		return tx.Model(&models.Approval{}).Where("creative_id = ?", creative.ID).Updates(reset).Error
	})
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, creative.ID)
}

// Delete removes a creative; the approval goes with it via cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.conn(ctx).Where("id = ?", id).Delete(&models.Creative{}).Error
}

// DeleteByIdea removes every creative owned by an idea.
func (r *Repository) DeleteByIdea(ctx context.Context, ideaID uuid.UUID) error {
	return r.conn(ctx).Where("idea_id = ?", ideaID).Delete(&models.Creative{}).Error
}

// DeleteAll removes every creative row. Used by the queue-clear step.
func (r *Repository) DeleteAll(ctx context.Context) error {
	return r.conn(ctx).Where("1 = 1").Delete(&models.Creative{}).Error
}
