package recorder

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"stock-news-advisor/internal/types"
)

// SQLiteRecorder persists predictions to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboard reads do not block the writer.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS predictions (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			title       TEXT,
			ticker      TEXT,
			action      TEXT,
			confidence  REAL,
			reason      TEXT,
			sentiment   TEXT,
			ma5         REAL,
			ma20        REAL,
			rsi         REAL,
			direction   TEXT,
			prob_up     REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_ts ON predictions(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_ticker ON predictions(ticker)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordPrediction(p types.Prediction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sentiment, err := json.Marshal(p.Sentiment)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(`INSERT INTO predictions
		(timestamp, title, ticker, action, confidence, reason, sentiment,
		 ma5, ma20, rsi, direction, prob_up)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		p.Time, p.Title, p.Ticker,
		p.Recommendation.Action, p.Recommendation.Confidence, p.Recommendation.Reason,
		string(sentiment),
		p.Indicators.MA5, p.Indicators.MA20, p.Indicators.RSI,
		p.Indicators.Direction, p.Indicators.ProbUp,
	)
	return err
}

func (r *SQLiteRecorder) Close() error { return r.db.Close() }
