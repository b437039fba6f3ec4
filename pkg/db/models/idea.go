package models

import (
	"time"

	"github.com/google/uuid"
)

// Idea is one generated concept for a single (region, demographic) pair of a
// brief. Regeneration mutates the row in place: content is replaced and
// GenerationCount increments, while the id and foreign keys stay fixed.
type Idea struct {
	ID              uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BriefID         uuid.UUID  `gorm:"column:brief_id;type:uuid;not null" json:"brief_id"`
	Region          string     `gorm:"column:region;size:50;not null" json:"region"`
	Demographic     string     `gorm:"column:demographic;size:50;not null" json:"demographic"`
	Content         string     `gorm:"column:content;not null" json:"content"`
	LanguageCode    string     `gorm:"column:language_code;size:10;not null" json:"language_code"`
	GenerationCount int        `gorm:"column:generation_count;not null;default:1" json:"generation_count"`
	Creatives       []Creative `gorm:"foreignKey:IdeaID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
