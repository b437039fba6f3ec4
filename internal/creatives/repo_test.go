package creatives

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/adforge/adforge-backend/pkg/db"
	"github.com/adforge/adforge-backend/pkg/db/models"
	"github.com/adforge/adforge-backend/pkg/enums"
	"github.com/adforge/adforge-backend/pkg/pagination"
)

func setupCreativesTestDB(t *testing.T) *db.Client {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_foreign_keys=on"), &gorm.Config{})
	require.NoError(t, err)

	creatives := `
CREATE TABLE IF NOT EXISTS creatives (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
  idea_id TEXT NOT NULL,
  file_ref TEXT NOT NULL,
  mime_type TEXT NOT NULL,
  size_bytes INTEGER NOT NULL,
  job_id TEXT,
  aspect_ratio TEXT NOT NULL DEFAULT '1:1',
  generation_count INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	approvals := `
CREATE TABLE IF NOT EXISTS approvals (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
  creative_id TEXT NOT NULL UNIQUE REFERENCES creatives(id) ON DELETE CASCADE,
  creative_approved INTEGER NOT NULL DEFAULT 0,
  creative_approved_at DATETIME,
  regional_approved INTEGER NOT NULL DEFAULT 0,
  regional_approved_at DATETIME,
  deployed INTEGER NOT NULL DEFAULT 0,
  deployed_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, conn.Exec(creatives).Error)
	require.NoError(t, conn.Exec(approvals).Error)

	// the shared-cache database survives between tests in this package
	require.NoError(t, conn.Exec("DELETE FROM approvals").Error)
	require.NoError(t, conn.Exec("DELETE FROM creatives").Error)

	return db.NewWithConn(conn)
}

func seedCreative(t *testing.T, repo *Repository, ideaID uuid.UUID, ratio enums.AspectRatio) *models.Creative {
	t.Helper()

	creative, err := repo.CreateWithApproval(context.Background(), &models.Creative{
		ID:          uuid.New(),
		IdeaID:      ideaID,
		FileRef:     "creatives/" + uuid.NewString() + ".png",
		MimeType:    "image/png",
		SizeBytes:   2048,
		AspectRatio: ratio,
	})
	require.NoError(t, err)
	return creative
}

func setApproval(t *testing.T, client *db.Client, creativeID uuid.UUID, creative, regional, deployed bool) {
	t.Helper()

	err := client.DB().Model(&models.Approval{}).Where("creative_id = ?", creativeID).Updates(map[string]any{
		"creative_approved": creative,
		"regional_approved": regional,
		"deployed":          deployed,
	}).Error
	require.NoError(t, err)
}

func TestCreateWithApprovalCreatesGate(t *testing.T) {
	client := setupCreativesTestDB(t)
	repo := NewRepository(client)

	creative := seedCreative(t, repo, uuid.New(), enums.AspectRatioLandscape)
	require.NotNil(t, creative.Approval)
	assert.False(t, creative.Approval.CreativeApproved)
	assert.False(t, creative.Approval.RegionalApproved)
	assert.False(t, creative.Approval.Deployed)

	found, err := repo.FindByID(context.Background(), creative.ID)
	require.NoError(t, err)
	require.NotNil(t, found.Approval)
	assert.Equal(t, creative.ID, found.Approval.CreativeID)
	assert.Equal(t, 1, found.GenerationCount)
}

func TestRegenerateWithResetClearsApproval(t *testing.T) {
	client := setupCreativesTestDB(t)
	repo := NewRepository(client)

	creative := seedCreative(t, repo, uuid.New(), enums.AspectRatioSquare)
	setApproval(t, client, creative.ID, true, true, true)

	creative.FileRef = "creatives/regenerated.png"
	creative.SizeBytes = 4096
	updated, err := repo.RegenerateWithReset(context.Background(), creative)
	require.NoError(t, err)

	assert.Equal(t, "creatives/regenerated.png", updated.FileRef)
	assert.Equal(t, 2, updated.GenerationCount)
	require.NotNil(t, updated.Approval)
	assert.False(t, updated.Approval.CreativeApproved)
	assert.False(t, updated.Approval.RegionalApproved)
	assert.False(t, updated.Approval.Deployed)
}

func TestListFiltersByApprovalStatus(t *testing.T) {
	client := setupCreativesTestDB(t)
	repo := NewRepository(client)

	ideaID := uuid.New()
	seedCreative(t, repo, ideaID, enums.AspectRatioLandscape)
	approved := seedCreative(t, repo, ideaID, enums.AspectRatioPortrait)
	deployed := seedCreative(t, repo, ideaID, enums.AspectRatioSquare)
	setApproval(t, client, approved.ID, true, true, false)
	setApproval(t, client, deployed.ID, true, true, true)

	page := pagination.Params{Limit: 50}

	all, err := repo.List(context.Background(), nil, page)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	status := enums.CreativeStatusPending
	rows, err := repo.List(context.Background(), &status, page)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	status = enums.CreativeStatusApproved
	rows, err = repo.List(context.Background(), &status, page)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, approved.ID, rows[0].ID)

	status = enums.CreativeStatusDeployed
	rows, err = repo.List(context.Background(), &status, page)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, deployed.ID, rows[0].ID)
}

func TestDeleteCascadesApproval(t *testing.T) {
	client := setupCreativesTestDB(t)
	repo := NewRepository(client)

	creative := seedCreative(t, repo, uuid.New(), enums.AspectRatioSquare)
	require.NoError(t, repo.Delete(context.Background(), creative.ID))

	var count int64
	require.NoError(t, client.DB().Model(&models.Approval{}).Where("creative_id = ?", creative.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteByIdeaRemovesOnlyThatIdea(t *testing.T) {
	client := setupCreativesTestDB(t)
	repo := NewRepository(client)

	target := uuid.New()
	other := uuid.New()
	seedCreative(t, repo, target, enums.AspectRatioLandscape)
	seedCreative(t, repo, target, enums.AspectRatioSquare)
	kept := seedCreative(t, repo, other, enums.AspectRatioPortrait)

	require.NoError(t, repo.DeleteByIdea(context.Background(), target))

	remaining, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, kept.ID, remaining[0].ID)
}

func TestDeleteAllEmptiesQueue(t *testing.T) {
	client := setupCreativesTestDB(t)
	repo := NewRepository(client)

	seedCreative(t, repo, uuid.New(), enums.AspectRatioLandscape)
	seedCreative(t, repo, uuid.New(), enums.AspectRatioSquare)

	require.NoError(t, repo.DeleteAll(context.Background()))

	remaining, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, remaining)
}
