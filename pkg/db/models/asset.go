package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/adforge/adforge-backend/pkg/enums"
)

// Asset is a brand or product reference image. Assets sit outside the
// brief→idea→creative chain and feed generation read-only (colors, logo ref).
type Asset struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AssetType     enums.AssetType `gorm:"column:asset_type;size:10;not null" json:"asset_type"`
	Filename      string          `gorm:"column:filename;size:255;not null" json:"filename"`
	FileRef       string          `gorm:"column:file_ref;size:512;not null;unique" json:"file_ref"`
	MimeType      string          `gorm:"column:mime_type;size:100;not null" json:"mime_type"`
	SizeBytes     int64           `gorm:"column:size_bytes;not null" json:"size_bytes"`
	BrandColors   pq.StringArray  `gorm:"column:brand_colors;type:text[]" json:"brand_colors,omitempty"`
	AutoGenerated bool            `gorm:"column:auto_generated;not null;default:false" json:"auto_generated"`
	BriefContent  *string         `gorm:"column:brief_content" json:"brief_content,omitempty"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
