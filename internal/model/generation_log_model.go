package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type GenerationLog struct {
	Id           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId    uuid.UUID      `gorm:"type:uuid;not null;index"`
	Level        string         `gorm:"type:varchar(16);not null"`
	Action       string         `gorm:"type:varchar(32);not null"`
	Message      string         `gorm:"type:text"`
	Context      datatypes.JSON `gorm:"type:jsonb"`
	ModelUsed    string         `gorm:"type:varchar(64)"`
	TokensInput  int            `gorm:"not null;default:0"`
	TokensOutput int            `gorm:"not null;default:0"`
	CostUsd      float64        `gorm:"not null;default:0"`
	DurationMs   int            `gorm:"not null;default:0"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
}

func (GenerationLog) TableName() string {
	return "generation_logs"
}
