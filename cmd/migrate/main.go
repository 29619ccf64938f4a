package main

import (
	"log"
	"os"

	"ai-coursegen-be/internal/model"
	"ai-coursegen-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting Authoritative GORM Migration...")

	// 3. Pre-Migration: Extensions (gen_random_uuid needs pgcrypto)
	log.Println("Step 1: Setting up Extensions...")

	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate All Models (The Core Task)
	log.Println("Step 2: Running AutoMigrate...")

	models := []interface{}{
		// Generation pipeline
		&model.GenerationSession{},
		&model.ContentProposal{},
		&model.GenerationLog{},

		// Content catalog
		&model.Course{},
		&model.Module{},
		&model.ModuleLesson{},
		&model.Lesson{},
		&model.Slide{},
		&model.Question{},
		&model.Assessment{},
		&model.AssessmentQuestion{},
		&model.Article{},
	}

	// Migrate strictly
	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Post-Migration: session-scoped rows go with their session
	log.Println("Step 3: Creating Foreign Keys...")

	postMigrationSQL := []string{
		`ALTER TABLE content_proposals DROP CONSTRAINT IF EXISTS fk_content_proposals_session;`,
		`ALTER TABLE content_proposals ADD CONSTRAINT fk_content_proposals_session
		 FOREIGN KEY (session_id) REFERENCES generation_sessions(id) ON DELETE CASCADE;`,
		`ALTER TABLE generation_logs DROP CONSTRAINT IF EXISTS fk_generation_logs_session;`,
		`ALTER TABLE generation_logs ADD CONSTRAINT fk_generation_logs_session
		 FOREIGN KEY (session_id) REFERENCES generation_sessions(id) ON DELETE CASCADE;`,
		`ALTER TABLE assessment_questions DROP CONSTRAINT IF EXISTS fk_assessment_questions_assessment;`,
		`ALTER TABLE assessment_questions ADD CONSTRAINT fk_assessment_questions_assessment
		 FOREIGN KEY (assessment_id) REFERENCES assessments(id) ON DELETE CASCADE;`,
	}

	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}
