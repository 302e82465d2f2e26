// Package sqlite implements the key/value store and session repository on a
// local SQLite database through gorm.
package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	sqlitedriver "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"calories/internal/domain"
)

// Entry is one stored key/value pair.
type Entry struct {
	Key       string `gorm:"primaryKey"`
	Value     []byte `gorm:"not null"`
	UpdatedAt time.Time
}

// SessionRow is a persisted login session.
type SessionRow struct {
	Token     string    `gorm:"primaryKey"`
	Subject   string    `gorm:"not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time
}

// DB wraps a gorm connection.
type DB struct {
	gdb *gorm.DB
}

var (
	_ domain.KeyValueStore     = (*DB)(nil)
	_ domain.SessionRepository = (*SessionRepo)(nil)
)

// Open opens (creating if needed) the database at path and migrates it.
func Open(path string) (*DB, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = "calories.db"
	}
	if !strings.HasPrefix(path, "file:") {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
	}

	gdb, err := gorm.Open(sqlitedriver.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, err
	}
	if err := gdb.AutoMigrate(&Entry{}, &SessionRow{}); err != nil {
		return nil, err
	}
	return &DB{gdb: gdb}, nil
}

// Close closes the underlying connection pool.
func (d *DB) Close() error {
	sqlDB, err := d.gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Get returns the value stored under key, or nil when the key is absent.
func (d *DB) Get(ctx context.Context, key string) ([]byte, error) {
	var e Entry
	err := d.gdb.WithContext(ctx).First(&e, "`key` = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e.Value, nil
}

// Set upserts the value stored under key.
func (d *DB) Set(ctx context.Context, key string, value []byte) error {
	e := Entry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return d.gdb.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
}

// SessionRepo stores sessions in the same database.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo creates a session repository on db.
func NewSessionRepo(db *DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Create creates a new session.
func (r *SessionRepo) Create(ctx context.Context, subject, token string, expiresAt time.Time) error {
	return r.db.gdb.WithContext(ctx).Create(&SessionRow{
		Token:     token,
		Subject:   subject,
		ExpiresAt: expiresAt.UTC(),
		CreatedAt: time.Now().UTC(),
	}).Error
}

// GetByToken retrieves a session by token.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	var row SessionRow
	err := r.db.gdb.WithContext(ctx).First(&row, "token = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &domain.Session{
		Token:     row.Token,
		Subject:   row.Subject,
		ExpiresAt: row.ExpiresAt,
		CreatedAt: row.CreatedAt,
	}, nil
}

// Delete deletes a session by token.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	return r.db.gdb.WithContext(ctx).Delete(&SessionRow{}, "token = ?", token).Error
}

// DeleteExpired deletes all expired sessions.
func (r *SessionRepo) DeleteExpired(ctx context.Context) error {
	return r.db.gdb.WithContext(ctx).Where("expires_at < ?", time.Now().UTC()).Delete(&SessionRow{}).Error
}
