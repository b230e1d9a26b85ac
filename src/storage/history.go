package storage

import (
	"database/sql"
	"fmt"
	"time"

	"stock-digest/src/logger"
	"stock-digest/src/models"

	_ "modernc.org/sqlite"
)

// -----------------------------------------------------------------------------

// RunHistoryDB keeps an append-only log of pipeline runs in SQLite.
type RunHistoryDB struct {
	Path   string
	DB     *sql.DB
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewRunHistoryDB(path string, log *logger.Logger) *RunHistoryDB {
	return &RunHistoryDB{Path: path, Logger: log}
}

// -----------------------------------------------------------------------------

func (d *RunHistoryDB) Initialize() error {
	db, err := sql.Open("sqlite", d.Path)
	if err != nil {
		return err
	}
	if err := db.Ping(); err != nil {
		return err
	}
	d.DB = db

	// PRAGMA optimizations
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		d.Logger.Warning("Failed to set WAL mode: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL;"); err != nil {
		d.Logger.Warning("Failed to set synchronous mode: %v", err)
	}

	query := `
		CREATE TABLE IF NOT EXISTS run_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at INTEGER NOT NULL,
			finished_at INTEGER NOT NULL,
			ok INTEGER NOT NULL,
			error TEXT,
			quote_count INTEGER,
			article_count INTEGER,
			recipient TEXT
		);
	`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create run_history: %w", err)
	}

	return nil
}

// -----------------------------------------------------------------------------

func (d *RunHistoryDB) RecordRun(rec models.MRunRecord) error {
	okVal := 0
	if rec.OK {
		okVal = 1
	}

	_, err := d.DB.Exec(`
		INSERT INTO run_history (started_at, finished_at, ok, error, quote_count, article_count, recipient)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.StartedAt.UTC().Unix(), rec.FinishedAt.UTC().Unix(), okVal,
		rec.Error, rec.QuoteCount, rec.ArticleCount, rec.Recipient,
	)
	return err
}

// -----------------------------------------------------------------------------

func (d *RunHistoryDB) RecentRuns(limit int) ([]models.MRunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := d.DB.Query(`
		SELECT id, started_at, finished_at, ok, error, quote_count, article_count, recipient
		FROM run_history ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.MRunRecord
	for rows.Next() {
		var rec models.MRunRecord
		var started, finished int64
		var okVal int
		if err := rows.Scan(&rec.ID, &started, &finished, &okVal, &rec.Error,
			&rec.QuoteCount, &rec.ArticleCount, &rec.Recipient); err != nil {
			return nil, err
		}
		rec.StartedAt = time.Unix(started, 0).UTC()
		rec.FinishedAt = time.Unix(finished, 0).UTC()
		rec.OK = okVal == 1
		records = append(records, rec)
	}

	return records, rows.Err()
}

// -----------------------------------------------------------------------------

func (d *RunHistoryDB) Close() error {
	if d.DB == nil {
		return nil
	}
	return d.DB.Close()
}
