package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// The models below are the write targets for approved proposals. They
// mirror the catalog tables the rest of the platform reads from.

type Question struct {
	Id             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationId *uuid.UUID `gorm:"type:uuid;index"`
	Title          string     `gorm:"type:varchar(255);not null"`
	Category       string     `gorm:"type:varchar(128)"`
	Subcategory    string     `gorm:"type:varchar(128)"`
	Grade          string     `gorm:"type:varchar(32)"`
	QuestionType   string     `gorm:"type:varchar(32);not null"`
	QuestionData   datatypes.JSON `gorm:"type:jsonb"`
	AnswerSchema   datatypes.JSON `gorm:"type:jsonb"`
	DifficultyLevel int           `gorm:"not null;default:5"`
	Marks          int            `gorm:"not null;default:1"`
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime"`
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (Question) TableName() string {
	return "questions"
}

type Assessment struct {
	Id               uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationId   *uuid.UUID `gorm:"type:uuid;index"`
	Title            string     `gorm:"type:varchar(255);not null"`
	Description      string     `gorm:"type:text"`
	YearGroup        string     `gorm:"type:varchar(32)"`
	Type             string     `gorm:"type:varchar(32);not null"`
	Status           string     `gorm:"type:varchar(16);not null"`
	TimeLimit        int        `gorm:"not null;default:0"`
	RetakeAllowed    bool       `gorm:"not null;default:false"`
	AvailabilityDate *time.Time
	Deadline         *time.Time
	CreatedAt        time.Time      `gorm:"autoCreateTime"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime"`
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}

func (Assessment) TableName() string {
	return "assessments"
}

// AssessmentQuestion attaches a bank question to an assessment.
type AssessmentQuestion struct {
	AssessmentId  uuid.UUID `gorm:"type:uuid;primaryKey"`
	QuestionId    uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderPosition int       `gorm:"not null;default:0"`
	CustomPoints  int       `gorm:"not null;default:1"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (AssessmentQuestion) TableName() string {
	return "assessment_questions"
}

type Course struct {
	Id             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationId *uuid.UUID `gorm:"type:uuid;index"`
	Title          string     `gorm:"type:varchar(255);not null"`
	Description    string     `gorm:"type:text"`
	YearGroup      string     `gorm:"type:varchar(32)"`
	Status         string     `gorm:"type:varchar(16);not null;default:'draft'"`
	Metadata       datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime"`
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (Course) TableName() string {
	return "courses"
}

type Module struct {
	Id             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CourseId       uuid.UUID  `gorm:"type:uuid;not null;index"`
	OrganizationId *uuid.UUID `gorm:"type:uuid;index"`
	Title          string     `gorm:"type:varchar(255);not null"`
	Description    string     `gorm:"type:text"`
	OrderPosition  int        `gorm:"not null;default:0"`
	Status         string     `gorm:"type:varchar(16);not null;default:'draft'"`
	Metadata       datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime"`
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (Module) TableName() string {
	return "modules"
}

// ModuleLesson attaches a lesson to a module in display order.
type ModuleLesson struct {
	ModuleId      uuid.UUID `gorm:"type:uuid;primaryKey"`
	LessonId      uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderPosition int       `gorm:"not null;default:0"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (ModuleLesson) TableName() string {
	return "module_lessons"
}

type Lesson struct {
	Id               uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CourseId         *uuid.UUID `gorm:"type:uuid;index"`
	OrganizationId   *uuid.UUID `gorm:"type:uuid;index"`
	Title            string     `gorm:"type:varchar(255);not null"`
	Description      string     `gorm:"type:text"`
	YearGroup        string     `gorm:"type:varchar(32)"`
	LessonType       string     `gorm:"type:varchar(32)"`
	DeliveryMode     string     `gorm:"type:varchar(32)"`
	Status           string     `gorm:"type:varchar(16);not null;default:'draft'"`
	EstimatedMinutes int        `gorm:"not null;default:0"`
	EnableAiHelp     bool       `gorm:"not null;default:true"`
	EnableTts        bool       `gorm:"not null;default:true"`
	Metadata         datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt        time.Time      `gorm:"autoCreateTime"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime"`
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}

func (Lesson) TableName() string {
	return "lessons"
}

type Slide struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LessonId         uuid.UUID `gorm:"type:uuid;not null;index"`
	Title            string    `gorm:"type:varchar(255);not null"`
	OrderPosition    int       `gorm:"not null;default:0"`
	EstimatedSeconds int       `gorm:"not null;default:60"`
	AutoAdvance      bool      `gorm:"not null;default:false"`
	Blocks           datatypes.JSON `gorm:"type:jsonb"`
	TeacherNotes     string         `gorm:"type:text"`
	CreatedAt        time.Time      `gorm:"autoCreateTime"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime"`
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}

func (Slide) TableName() string {
	return "slides"
}

type Article struct {
	Id                   uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationId       *uuid.UUID `gorm:"type:uuid;index"`
	Name                 string     `gorm:"type:varchar(255);not null"`
	Title                string     `gorm:"type:varchar(255);not null"`
	Category             string     `gorm:"type:varchar(128)"`
	Tag                  string     `gorm:"type:varchar(255)"`
	Description          string     `gorm:"type:text"`
	BodyType             string     `gorm:"type:varchar(16);not null"`
	ArticleTemplate      string     `gorm:"type:text"`
	Author               string     `gorm:"type:varchar(128)"`
	ScheduledPublishDate string     `gorm:"type:varchar(10)"`
	KeyAttributes        datatypes.JSON `gorm:"type:jsonb"`
	Sections             datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt            time.Time      `gorm:"autoCreateTime"`
	UpdatedAt            time.Time      `gorm:"autoUpdateTime"`
	DeletedAt            gorm.DeletedAt `gorm:"index"`
}

func (Article) TableName() string {
	return "articles"
}
