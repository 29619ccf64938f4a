package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type GenerationSession struct {
	Id                    uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId                uuid.UUID  `gorm:"type:uuid;not null;index"`
	OrganizationId        *uuid.UUID `gorm:"type:uuid;index"`
	ContentType           string     `gorm:"type:varchar(32);not null"`
	Status                string     `gorm:"type:varchar(32);not null;index"`
	UserPrompt            string     `gorm:"type:text"`
	SourceType            string     `gorm:"type:varchar(16);not null"`
	SourceData            datatypes.JSON `gorm:"type:jsonb"`
	InputSettings         datatypes.JSON `gorm:"type:jsonb"`
	QualityThreshold      float64    `gorm:"not null;default:0.85"`
	MaxIterations         int        `gorm:"not null;default:10"`
	CurrentIteration      int        `gorm:"not null;default:0"`
	ItemsGenerated        int        `gorm:"not null;default:0"`
	ItemsApproved         int        `gorm:"not null;default:0"`
	ItemsRejected         int        `gorm:"not null;default:0"`
	CurrentQualityScore   float64    `gorm:"not null;default:0"`
	ErrorMessage          string     `gorm:"type:text"`
	StartedAt             *time.Time
	CompletedAt           *time.Time
	ProcessingTimeSeconds int `gorm:"not null;default:0"`
	CreatedAt             time.Time      `gorm:"autoCreateTime"`
	UpdatedAt             time.Time      `gorm:"autoUpdateTime"`
	DeletedAt             gorm.DeletedAt `gorm:"index"`
}

func (GenerationSession) TableName() string {
	return "generation_sessions"
}
