package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/ideabox-backend/internal/domain"
)

// Models lists every table in migration order. The chat table references idea.
func Models() []interface{} {
	return []interface{}{
		&types.User{},
		&types.Idea{},
		&types.ChatMessage{},
	}
}

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if db.Dialector.Name() == "postgres" {
		return EnsureIdeaIndexes(db)
	}
	return nil
}

func EnsureIdeaIndexes(db *gorm.DB) error {
	// Title search is a case-insensitive substring match.
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_idea_owner_lower_title ON idea (owner_id, lower(title));`).Error; err != nil {
		return fmt.Errorf("create idx_idea_owner_lower_title: %w", err)
	}
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_idea_owner_created ON idea (owner_id, created_at DESC);`).Error; err != nil {
		return fmt.Errorf("create idx_idea_owner_created: %w", err)
	}
	return nil
}
