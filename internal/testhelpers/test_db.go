package testhelpers

import (
	"fmt"
	"testing"

	"github.com/lshigami/InterviewCoach/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SetupTestDB creates an isolated in-memory SQLite database migrated with
// the interview schema.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&model.Interview{}, &model.Question{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// DropQuestionTable removes the questions table to force batch-insert
// failures.
func DropQuestionTable(t *testing.T, db *gorm.DB) {
	t.Helper()
	if err := db.Migrator().DropTable(&model.Question{}); err != nil {
		t.Fatalf("failed to drop question table: %v", err)
	}
}
