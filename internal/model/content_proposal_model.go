package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ContentProposal struct {
	Id                uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId         uuid.UUID  `gorm:"type:uuid;not null;index"`
	ContentType       string     `gorm:"type:varchar(32);not null"`
	ParentProposalId  *uuid.UUID `gorm:"type:uuid;index"`
	ParentType        string     `gorm:"type:varchar(32)"`
	OrderPosition     int        `gorm:"not null;default:0"`
	Status            string     `gorm:"type:varchar(16);not null;index"`
	ProposedData      datatypes.JSON `gorm:"type:jsonb"`
	OriginalData      datatypes.JSON `gorm:"type:jsonb"`
	UserModifications datatypes.JSON `gorm:"type:jsonb"`
	ModifiedBy        *uuid.UUID `gorm:"type:uuid"`
	ModifiedAt        *time.Time
	IsValid           bool           `gorm:"not null;default:false"`
	ValidationErrors  datatypes.JSON `gorm:"type:jsonb"`
	CreatedModelType  string         `gorm:"type:varchar(64)"`
	CreatedModelId    *uuid.UUID     `gorm:"type:uuid"`
	CreatedAt         time.Time      `gorm:"autoCreateTime"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime"`
	DeletedAt         gorm.DeletedAt `gorm:"index"`
}

func (ContentProposal) TableName() string {
	return "content_proposals"
}
