package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"ai-coursegen-be/internal/repository/unitofwork"
	"ai-coursegen-be/pkg/database"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.GenerationSessionRepository())
	assert.NotNil(t, uow.ContentProposalRepository())
	assert.NotNil(t, uow.GenerationLogRepository())
	assert.NotNil(t, uow.ContentWriterRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	// Verify Data Access (implies columns exist)
	t.Run("Check Session Repository", func(t *testing.T) {
		count, err := uow.GenerationSessionRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Generation session count: %d", count)
	})

	t.Run("Check Proposal Repository", func(t *testing.T) {
		count, err := uow.ContentProposalRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Content proposal count: %d", count)
	})

	t.Run("Check Log Repository", func(t *testing.T) {
		count, err := uow.GenerationLogRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Generation log count: %d", count)
	})

	t.Run("Check Course Catalog", func(t *testing.T) {
		courses, err := uow.ContentWriterRepository().ListCourses(context.Background(), nil)
		assert.NoError(t, err)
		t.Logf("Course count: %d", len(courses))
	})
}
