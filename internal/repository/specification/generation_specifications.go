package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BySessionID filters proposals and logs to one session.
type BySessionID struct {
	SessionID uuid.UUID
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

// ByUserID filters sessions to their owner.
type ByUserID struct {
	UserID uuid.UUID
}

func (s ByUserID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

// ByOrganizationID scopes to an organization. A nil ID matches records
// that carry no organization.
type ByOrganizationID struct {
	OrganizationID *uuid.UUID
}

func (s ByOrganizationID) Apply(db *gorm.DB) *gorm.DB {
	if s.OrganizationID == nil {
		return db.Where("organization_id IS NULL")
	}
	return db.Where("organization_id = ?", s.OrganizationID)
}

// ByStatusIn filters by a set of statuses.
type ByStatusIn struct {
	Statuses []string
}

func (s ByStatusIn) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status IN ?", s.Statuses)
}

// OnlyValid keeps proposals that passed validation.
type OnlyValid struct{}

func (s OnlyValid) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_valid = ?", true)
}

// ReviewOrder groups proposals under their parent and keeps siblings in
// their generated order. It carries no parent-before-child guarantee;
// consumers that need one resolve the tree themselves.
type ReviewOrder struct{}

func (s ReviewOrder) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("parent_proposal_id ASC NULLS FIRST").Order("order_position ASC")
}
