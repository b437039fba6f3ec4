package models

import (
	"time"

	"github.com/google/uuid"
)

// Approval is the deployment gate for exactly one creative. Invariant:
// Deployed implies CreativeApproved, and RegionalApproved unless the owning
// idea's region is the configured home region.
type Approval struct {
	ID                 uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CreativeID         uuid.UUID  `gorm:"column:creative_id;type:uuid;not null;unique" json:"creative_id"`
	CreativeApproved   bool       `gorm:"column:creative_approved;not null;default:false" json:"creative_approved"`
	CreativeApprovedAt *time.Time `gorm:"column:creative_approved_at" json:"creative_approved_at,omitempty"`
	RegionalApproved   bool       `gorm:"column:regional_approved;not null;default:false" json:"regional_approved"`
	RegionalApprovedAt *time.Time `gorm:"column:regional_approved_at" json:"regional_approved_at,omitempty"`
	Deployed           bool       `gorm:"column:deployed;not null;default:false" json:"deployed"`
	DeployedAt         *time.Time `gorm:"column:deployed_at" json:"deployed_at,omitempty"`
	CreatedAt          time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
