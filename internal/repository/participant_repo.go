package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"legendarios/internal/database"
	"legendarios/internal/models"
)

// ParticipantRepository handles database operations for participants
type ParticipantRepository struct {
	db *database.DB
}

// NewParticipantRepository creates a new participant repository
func NewParticipantRepository(db *database.DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

const participantColumns = `id, name, email, birth_date, weight_kg, fitness_score,
	health_notes, separate_from, waiver_status, family_id, created_at, updated_at`

// CreateParticipant persists a new participant, generating its ID when unset
func (r *ParticipantRepository) CreateParticipant(p *models.Participant) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.WaiverStatus == "" {
		p.WaiverStatus = models.WaiverPending
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	query := `INSERT INTO participants
		(id, name, email, birth_date, weight_kg, fitness_score, health_notes,
		 separate_from, waiver_status, family_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.Exec(query,
		p.ID, p.Name, p.Email, nullTime(p.BirthDate), p.WeightKg, p.FitnessScore,
		p.HealthNotes, p.SeparateFrom, p.WaiverStatus, p.FamilyID, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create participant: %w", err)
	}
	return nil
}

// GetParticipantByID retrieves a participant by ID
func (r *ParticipantRepository) GetParticipantByID(id string) (*models.Participant, error) {
	query := "SELECT " + participantColumns + " FROM participants WHERE id = ?"
	p, err := scanParticipant(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	return p, nil
}

// ListParticipants retrieves the full roster in registration order.
// Registration order is the roster order the distribution and pairing
// engines depend on, so results are deterministic across runs.
func (r *ParticipantRepository) ListParticipants() ([]models.Participant, error) {
	query := "SELECT " + participantColumns + " FROM participants ORDER BY created_at ASC, id ASC"
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	defer rows.Close()

	return collectParticipants(rows)
}

// ListFamilyParticipants retrieves all participants assigned to a family
func (r *ParticipantRepository) ListFamilyParticipants(familyID int64) ([]models.Participant, error) {
	query := "SELECT " + participantColumns + " FROM participants WHERE family_id = ? ORDER BY created_at ASC, id ASC"
	rows, err := r.db.Query(query, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query family participants: %w", err)
	}
	defer rows.Close()

	return collectParticipants(rows)
}

// UpdateParticipant updates a participant's registration fields
func (r *ParticipantRepository) UpdateParticipant(p *models.Participant) error {
	query := `UPDATE participants SET
		name = ?, email = ?, birth_date = ?, weight_kg = ?, fitness_score = ?,
		health_notes = ?, separate_from = ?, waiver_status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`
	result, err := r.db.Exec(query,
		p.Name, p.Email, nullTime(p.BirthDate), p.WeightKg, p.FitnessScore,
		p.HealthNotes, p.SeparateFrom, p.WaiverStatus, p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update participant: %w", err)
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetWaiverStatus updates only the waiver status of a participant
func (r *ParticipantRepository) SetWaiverStatus(id, status string) error {
	query := "UPDATE participants SET waiver_status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	_, err := r.db.Exec(query, status, id)
	if err != nil {
		return fmt.Errorf("failed to set waiver status: %w", err)
	}
	return nil
}

// SaveFamilyAssignments writes the family assignment of every listed
// participant in a single transaction, so a distribution run is applied
// all-or-nothing.
func (r *ParticipantRepository) SaveFamilyAssignments(assignments map[string]int64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := "UPDATE participants SET family_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	for participantID, familyID := range assignments {
		if _, err := tx.Exec(query, familyID, participantID); err != nil {
			return fmt.Errorf("failed to assign participant %s: %w", participantID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteParticipant removes a participant by ID
func (r *ParticipantRepository) DeleteParticipant(id string) error {
	_, err := r.db.Exec("DELETE FROM participants WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete participant: %w", err)
	}
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanParticipant(row rowScanner) (*models.Participant, error) {
	p := &models.Participant{}
	var birthDate sql.NullTime
	var weight sql.NullFloat64
	var fitness, familyID sql.NullInt64

	err := row.Scan(
		&p.ID, &p.Name, &p.Email, &birthDate, &weight, &fitness,
		&p.HealthNotes, &p.SeparateFrom, &p.WaiverStatus, &familyID,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if birthDate.Valid {
		p.BirthDate = birthDate.Time
	}
	if weight.Valid {
		p.WeightKg = &weight.Float64
	}
	if fitness.Valid {
		score := int(fitness.Int64)
		p.FitnessScore = &score
	}
	if familyID.Valid {
		p.FamilyID = &familyID.Int64
	}
	return p, nil
}

func collectParticipants(rows *sql.Rows) ([]models.Participant, error) {
	var participants []models.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return participants, nil
}

func nullTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}
