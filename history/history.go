// Package history persists a record of every command line the engine
// dispatched, for operator audit and session replay. It is ambient
// plumbing outside spec.md's scope (spec.md's Non-goals exclude
// persistence of extension-module files specifically, not dispatch
// history), grounded on the teacher's database/db.go singleton-sqlite
// pattern but repurposed from job/session storage to a dispatch log.
package history

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/undefo/AdaptixC2/catalog"
)

// Entry is one persisted dispatch record.
type Entry struct {
	ID        uint      `gorm:"primaryKey"`
	AgentID   string    `gorm:"index"`
	Line      string
	Handled   bool
	Error     bool
	Message   string
	CreatedAt time.Time
}

// Store is a sqlite-backed History sink (commander.History). A Store is
// safe for concurrent Record calls.
type Store struct {
	mu sync.Mutex
	db *gorm.DB
}

// Open opens (creating if necessary) a sqlite database at path and
// migrates the Entry table. path's parent directory is created if it
// doesn't already exist.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Record satisfies commander.History: it appends one row per dispatched
// line. Write failures are swallowed — a broken audit log must never
// block command dispatch.
func (s *Store) Record(line string, result catalog.CommanderResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.db.Create(&Entry{
		Line:      line,
		Handled:   result.Handled,
		Error:     result.Error,
		Message:   result.Message,
		CreatedAt: time.Now(),
	})
}

// RecordForAgent is like Record but tags the row with an agent identity.
func (s *Store) RecordForAgent(agentID uuid.UUID, line string, result catalog.CommanderResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.db.Create(&Entry{
		AgentID:   agentID.String(),
		Line:      line,
		Handled:   result.Handled,
		Error:     result.Error,
		Message:   result.Message,
		CreatedAt: time.Now(),
	})
}

// Recent returns the n most recently recorded entries, newest first.
func (s *Store) Recent(n int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Entry
	err := s.db.Order("created_at desc").Limit(n).Find(&out).Error
	return out, err
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
