package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/kensho/internal/models"
)

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens or creates a SQLite database at dbPath and
// initializes the schema. Parent directories are created if they do not exist.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS citation_edges (
		citing TEXT NOT NULL,
		cited TEXT NOT NULL,
		article_url TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_edges_citing ON citation_edges(citing);
	CREATE INDEX IF NOT EXISTS idx_edges_cited ON citation_edges(cited);

	CREATE TABLE IF NOT EXISTS trust_scores (
		source TEXT PRIMARY KEY,
		score REAL NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS claims (
		claim_id TEXT NOT NULL,
		text TEXT NOT NULL,
		source TEXT NOT NULL,
		article_url TEXT,
		recorded_at TIMESTAMP NOT NULL,
		contradictions TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_claims_source ON claims(source);
	CREATE INDEX IF NOT EXISTS idx_claims_recorded_at ON claims(recorded_at);
	`
	_, err := db.Exec(schema)
	return err
}

// LoadGraph reads all citation edges and trust scores.
func (s *SQLiteRepository) LoadGraph(ctx context.Context) (*GraphSnapshot, error) {
	snap := &GraphSnapshot{TrustScores: make(map[string]float64)}

	rows, err := s.db.QueryContext(ctx,
		`SELECT citing, cited, article_url FROM citation_edges ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var edge models.CitationEdge
		if err := rows.Scan(&edge.Citing, &edge.Cited, &edge.ArticleURL); err != nil {
			return nil, err
		}
		snap.Edges = append(snap.Edges, &edge)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	trustRows, err := s.db.QueryContext(ctx, `SELECT source, score FROM trust_scores`)
	if err != nil {
		return nil, err
	}
	defer trustRows.Close()

	for trustRows.Next() {
		var source string
		var score float64
		if err := trustRows.Scan(&source, &score); err != nil {
			return nil, err
		}
		snap.TrustScores[source] = score
	}
	return snap, trustRows.Err()
}

// SaveGraph replaces the stored graph with snap in a single transaction.
func (s *SQLiteRepository) SaveGraph(ctx context.Context, snap *GraphSnapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM citation_edges`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM trust_scores`); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO citation_edges (citing, cited, article_url) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, edge := range snap.Edges {
		if _, err := stmt.ExecContext(ctx, edge.Citing, edge.Cited, edge.ArticleURL); err != nil {
			return err
		}
	}

	now := time.Now()
	for source, score := range snap.TrustScores {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO trust_scores (source, score, updated_at) VALUES (?, ?, ?)`,
			source, score, now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LoadTimeline reads all claims ordered by recording time.
func (s *SQLiteRepository) LoadTimeline(ctx context.Context) (*TimelineSnapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT claim_id, text, source, article_url, recorded_at, contradictions
		 FROM claims ORDER BY recorded_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snap := &TimelineSnapshot{}
	for rows.Next() {
		var claim models.Claim
		var contradictionsJSON sql.NullString
		if err := rows.Scan(&claim.ClaimID, &claim.Text, &claim.Source,
			&claim.ArticleURL, &claim.Timestamp, &contradictionsJSON); err != nil {
			return nil, err
		}
		if contradictionsJSON.Valid && contradictionsJSON.String != "" {
			if err := json.Unmarshal([]byte(contradictionsJSON.String), &claim.Contradictions); err != nil {
				return nil, fmt.Errorf("failed to unmarshal contradictions: %w", err)
			}
		}
		snap.Claims = append(snap.Claims, &claim)
	}
	return snap, rows.Err()
}

// SaveTimeline replaces the stored claims with snap in a single transaction.
func (s *SQLiteRepository) SaveTimeline(ctx context.Context, snap *TimelineSnapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM claims`); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO claims (claim_id, text, source, article_url, recorded_at, contradictions)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, claim := range snap.Claims {
		var contradictionsJSON string
		if len(claim.Contradictions) > 0 {
			data, err := json.Marshal(claim.Contradictions)
			if err != nil {
				return fmt.Errorf("failed to marshal contradictions: %w", err)
			}
			contradictionsJSON = string(data)
		}
		if _, err := stmt.ExecContext(ctx, claim.ClaimID, claim.Text, claim.Source,
			claim.ArticleURL, claim.Timestamp, contradictionsJSON); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Close closes the database connection.
func (s *SQLiteRepository) Close() error {
	return s.db.Close()
}
