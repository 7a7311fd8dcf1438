package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"legendarios/internal/database"
	"legendarios/internal/models"
)

// ZiplineRepository persists pairing runs for later export and audit
type ZiplineRepository struct {
	db *database.DB
}

// NewZiplineRepository creates a new zipline repository
func NewZiplineRepository(db *database.DB) *ZiplineRepository {
	return &ZiplineRepository{db: db}
}

// SaveRun persists a run and all its pairs in one transaction
func (r *ZiplineRepository) SaveRun(run *models.ZiplineRun, pairs []models.ZiplineRunPair) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	run.PairCount = len(pairs)

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := "INSERT INTO zipline_runs (id, mode, pair_count, created_at) VALUES (?, ?, ?, ?)"
	if _, err := tx.Exec(query, run.ID, run.Mode, run.PairCount, run.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	pairQuery := `INSERT INTO zipline_run_pairs
		(run_id, pod_index, family_id, sequence, first_id, first_weight,
		 second_id, second_weight, combined_weight)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for i := range pairs {
		pair := &pairs[i]
		pair.RunID = run.ID
		_, err := tx.Exec(pairQuery,
			pair.RunID, pair.PodIndex, pair.FamilyID, pair.Sequence,
			pair.FirstID, pair.FirstWeight, pair.SecondID, pair.SecondWeight,
			pair.CombinedWeight,
		)
		if err != nil {
			return fmt.Errorf("failed to insert pair: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListRuns retrieves all runs, newest first
func (r *ZiplineRepository) ListRuns() ([]models.ZiplineRun, error) {
	query := "SELECT id, mode, pair_count, created_at FROM zipline_runs ORDER BY created_at DESC"
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []models.ZiplineRun
	for rows.Next() {
		var run models.ZiplineRun
		if err := rows.Scan(&run.ID, &run.Mode, &run.PairCount, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}

	return runs, nil
}

// GetRunPairs retrieves the pairs of one run in pod and sequence order
func (r *ZiplineRepository) GetRunPairs(runID string) ([]models.ZiplineRunPair, error) {
	query := `SELECT run_id, pod_index, family_id, sequence, first_id, first_weight,
		second_id, second_weight, combined_weight
		FROM zipline_run_pairs WHERE run_id = ?
		ORDER BY pod_index ASC, sequence ASC`
	rows, err := r.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query run pairs: %w", err)
	}
	defer rows.Close()

	var pairs []models.ZiplineRunPair
	for rows.Next() {
		var pair models.ZiplineRunPair
		var secondID sql.NullString
		var secondWeight sql.NullFloat64
		err := rows.Scan(
			&pair.RunID, &pair.PodIndex, &pair.FamilyID, &pair.Sequence,
			&pair.FirstID, &pair.FirstWeight, &secondID, &secondWeight,
			&pair.CombinedWeight,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run pair: %w", err)
		}
		if secondID.Valid {
			pair.SecondID = &secondID.String
		}
		if secondWeight.Valid {
			pair.SecondWeight = &secondWeight.Float64
		}
		pairs = append(pairs, pair)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate run pairs: %w", err)
	}

	return pairs, nil
}
