package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/yourusername/copilot-core/models"
)

// SQLiteStore persists user history and preferences in a local SQLite file.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (creating if needed) the database at dbPath and
// ensures the schema exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db, path: dbPath}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS user_history (
        user_id TEXT PRIMARY KEY,
        recent_prompts TEXT DEFAULT '[]',
        preferred_patterns TEXT DEFAULT '[]',
        common_mistakes TEXT DEFAULT '[]',
        updated_at DATETIME NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS user_preferences (
        user_id TEXT PRIMARY KEY,
        preferred_language TEXT NOT NULL,
        code_style TEXT NOT NULL,
        comment_style TEXT NOT NULL,
        testing_framework TEXT DEFAULT '',
        linter TEXT DEFAULT '',
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TRIGGER IF NOT EXISTS update_user_preferences_updated_at
        AFTER UPDATE ON user_preferences
        BEGIN
            UPDATE user_preferences SET updated_at = CURRENT_TIMESTAMP WHERE user_id = NEW.user_id;
        END;
    `
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) LoadHistory(userID string) (*models.UserHistory, error) {
	query := `SELECT user_id, recent_prompts, preferred_patterns, common_mistakes, updated_at
              FROM user_history WHERE user_id = ?`

	var history models.UserHistory
	var prompts, patterns, mistakes string
	err := s.db.QueryRow(query, userID).Scan(
		&history.UserID, &prompts, &patterns, &mistakes, &history.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(prompts), &history.RecentPrompts); err != nil {
		return nil, fmt.Errorf("corrupt recent_prompts for %s: %w", userID, err)
	}
	if err := json.Unmarshal([]byte(patterns), &history.PreferredPatterns); err != nil {
		return nil, fmt.Errorf("corrupt preferred_patterns for %s: %w", userID, err)
	}
	if err := json.Unmarshal([]byte(mistakes), &history.CommonMistakes); err != nil {
		return nil, fmt.Errorf("corrupt common_mistakes for %s: %w", userID, err)
	}
	return &history, nil
}

func (s *SQLiteStore) SaveHistory(history *models.UserHistory) error {
	prompts, err := json.Marshal(history.RecentPrompts)
	if err != nil {
		return err
	}
	patterns, err := json.Marshal(history.PreferredPatterns)
	if err != nil {
		return err
	}
	mistakes, err := json.Marshal(history.CommonMistakes)
	if err != nil {
		return err
	}

	query := `
    INSERT OR REPLACE INTO user_history
    (user_id, recent_prompts, preferred_patterns, common_mistakes, updated_at)
    VALUES (?, ?, ?, ?, ?)`

	_, err = s.db.Exec(query,
		history.UserID, string(prompts), string(patterns), string(mistakes), history.UpdatedAt)
	return err
}

func (s *SQLiteStore) LoadPreferences(userID string) (*models.UserPreferences, error) {
	query := `SELECT user_id, preferred_language, code_style, comment_style, testing_framework, linter
              FROM user_preferences WHERE user_id = ?`

	var prefs models.UserPreferences
	err := s.db.QueryRow(query, userID).Scan(
		&prefs.UserID, &prefs.PreferredLanguage, &prefs.CodeStyle,
		&prefs.CommentStyle, &prefs.TestingFramework, &prefs.Linter)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &prefs, nil
}

func (s *SQLiteStore) SavePreferences(prefs *models.UserPreferences) error {
	query := `
    INSERT OR REPLACE INTO user_preferences
    (user_id, preferred_language, code_style, comment_style, testing_framework, linter)
    VALUES (?, ?, ?, ?, ?, ?)`

	_, err := s.db.Exec(query,
		prefs.UserID, prefs.PreferredLanguage, string(prefs.CodeStyle),
		string(prefs.CommentStyle), prefs.TestingFramework, prefs.Linter)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
