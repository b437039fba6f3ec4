package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/adforge/adforge-backend/pkg/enums"
)

// Brief is the campaign input. It exclusively owns its ideas; deleting a
// brief cascades through ideas and creatives down to approvals.
type Brief struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Brand           *string           `gorm:"column:brand" json:"brand,omitempty"`
	ProductName     *string           `gorm:"column:product_name" json:"product_name,omitempty"`
	Content         string            `gorm:"column:content;not null" json:"content"`
	CampaignMessage string            `gorm:"column:campaign_message;size:500;not null" json:"campaign_message"`
	Regions         pq.StringArray    `gorm:"column:regions;type:text[];not null" json:"regions"`
	Demographics    pq.StringArray    `gorm:"column:demographics;type:text[];not null" json:"demographics"`
	SourceType      enums.BriefSource `gorm:"column:source_type;not null" json:"source_type"`
	SourceFilename  *string           `gorm:"column:source_filename" json:"source_filename,omitempty"`
	SourceRef       *string           `gorm:"column:source_ref" json:"source_ref,omitempty"`
	Ideas           []Idea            `gorm:"foreignKey:BriefID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
