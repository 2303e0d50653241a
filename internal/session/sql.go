package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/pageza/recipe-finder/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SQLStore keeps the session as one row in a gorm-managed table
type SQLStore struct {
	db  *gorm.DB
	key string
}

// NewSQLStore creates a store for the row identified by key. The table must
// already be migrated (see database.RunMigrations).
func NewSQLStore(db *gorm.DB, key string) *SQLStore {
	return &SQLStore{db: db, key: key}
}

// Load reads the session row
func (s *SQLStore) Load(ctx context.Context) (State, error) {
	var rec models.SessionRecord
	err := s.db.WithContext(ctx).First(&rec, "session_key = ?", s.key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return State{}, ErrNotFound
	}
	if err != nil {
		return State{}, fmt.Errorf("failed to read session row: %w", err)
	}
	return State{LoggedIn: rec.LoggedIn, Username: rec.Username, FirstName: rec.FirstName}, nil
}

// Save upserts the session row
func (s *SQLStore) Save(ctx context.Context, state State) error {
	rec := models.SessionRecord{
		Key:       s.key,
		LoggedIn:  state.LoggedIn,
		Username:  state.Username,
		FirstName: state.FirstName,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"logged_in", "username", "first_name", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("failed to write session row: %w", err)
	}
	return nil
}
