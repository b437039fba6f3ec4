package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/adforge/adforge-backend/pkg/enums"
)

// Creative is one rendered image artifact for an idea at one aspect ratio.
// Every creative owns exactly one approval record, created in the same
// transaction; regeneration replaces the artifact fields and resets the
// approval.
type Creative struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	IdeaID          uuid.UUID         `gorm:"column:idea_id;type:uuid;not null" json:"idea_id"`
	FileRef         string            `gorm:"column:file_ref;not null" json:"file_ref"`
	MimeType        string            `gorm:"column:mime_type;not null" json:"mime_type"`
	SizeBytes       int64             `gorm:"column:size_bytes;not null" json:"size_bytes"`
	JobID           *string           `gorm:"column:job_id" json:"job_id,omitempty"`
	AspectRatio     enums.AspectRatio `gorm:"column:aspect_ratio;size:10;not null;default:'1:1'" json:"aspect_ratio"`
	GenerationCount int               `gorm:"column:generation_count;not null;default:1" json:"generation_count"`
	Approval        *Approval         `gorm:"foreignKey:CreativeID;constraint:OnDelete:CASCADE" json:"approval,omitempty"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
