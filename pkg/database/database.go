package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/binhbb2204/Anime-Hub-Group13/pkg/logger"
	_ "modernc.org/sqlite"
)

var DB *sql.DB

func InitDatabase(dbPath string) error {
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}

	db, err := Open(dbPath)
	if err != nil {
		return err
	}
	DB = db
	return nil
}

// Open connects to a SQLite file and makes sure the schema exists.
func Open(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err = createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	logger.Debug("database_ready", "path", dbPath)
	return db, nil
}

func createTables(db *sql.DB) error {
	schema := `
    CREATE TABLE IF NOT EXISTS users (
        id TEXT PRIMARY KEY,
        username TEXT UNIQUE NOT NULL,
        email TEXT UNIQUE,
        password_hash TEXT NOT NULL,
        avatar_url TEXT NOT NULL DEFAULT '',
        is_premium INTEGER NOT NULL DEFAULT 0,
        created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS anime_lists (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        anime_id TEXT NOT NULL DEFAULT '',
        title TEXT NOT NULL,
        image TEXT,
        episodes INTEGER,
        year INTEGER,
        status TEXT NOT NULL CHECK (status IN ('watching', 'completed', 'plan_to_watch')),
        rating REAL CHECK (rating IS NULL OR (rating >= 0 AND rating <= 5)),
        notes TEXT,
        created_at TIMESTAMP NOT NULL,
        updated_at TIMESTAMP NOT NULL,
        FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
    );

    CREATE TABLE IF NOT EXISTS anime_progress (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        anime_list_id TEXT NOT NULL UNIQUE,
        current_episode INTEGER NOT NULL DEFAULT 0,
        total_episodes INTEGER NOT NULL DEFAULT 0,
        completed INTEGER NOT NULL DEFAULT 0,
        completed_at TIMESTAMP,
        created_at TIMESTAMP NOT NULL,
        updated_at TIMESTAMP NOT NULL,
        FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
        FOREIGN KEY (anime_list_id) REFERENCES anime_lists(id) ON DELETE CASCADE
    );

    CREATE TABLE IF NOT EXISTS user_achievements (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        achievement_type TEXT NOT NULL,
        anime_id TEXT NOT NULL DEFAULT '',
        anime_title TEXT NOT NULL DEFAULT '',
        anime_icon TEXT,
        unlocked_at TIMESTAMP NOT NULL,
        UNIQUE (user_id, achievement_type, anime_id),
        FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
    );

    CREATE TABLE IF NOT EXISTS subscriptions (
        user_id TEXT PRIMARY KEY,
        subscribed INTEGER NOT NULL DEFAULT 0,
        tier TEXT NOT NULL DEFAULT '',
        current_period_end TIMESTAMP,
        customer_id TEXT NOT NULL DEFAULT '',
        updated_at TIMESTAMP NOT NULL,
        FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
    );

    CREATE TABLE IF NOT EXISTS checkout_sessions (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        status TEXT NOT NULL DEFAULT 'open',
        created_at TIMESTAMP NOT NULL,
        FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
    );

    CREATE INDEX IF NOT EXISTS idx_anime_lists_user ON anime_lists(user_id, updated_at);
    CREATE INDEX IF NOT EXISTS idx_anime_lists_user_status ON anime_lists(user_id, status);
    CREATE INDEX IF NOT EXISTS idx_user_achievements_user ON user_achievements(user_id, unlocked_at);
    `

	if _, err := db.Exec(schema); err != nil {
		return err
	}
	// Files created before avatars and premium existed lack these columns.
	if err := ensureColumn(db, "users", "avatar_url", `TEXT NOT NULL DEFAULT ''`); err != nil {
		return err
	}
	return ensureColumn(db, "users", "is_premium", `INTEGER NOT NULL DEFAULT 0`)
}

func ensureColumn(db *sql.DB, table, column, definition string) error {
	rows, err := db.Query(fmt.Sprintf(`PRAGMA table_info(%s);`, table))
	if err != nil {
		return err
	}
	found := false
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt interface{}
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			rows.Close()
			return err
		}
		if strings.EqualFold(name, column) {
			found = true
			break
		}
	}
	rows.Close()
	if found {
		return nil
	}
	if _, err := db.Exec(fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s %s;`, table, column, definition)); err != nil {
		logger.Warn("add_column_failed", "table", table, "column", column, "error", err.Error())
		return nil
	}
	logger.Info("column_added", "table", table, "column", column)
	return nil
}

func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}
