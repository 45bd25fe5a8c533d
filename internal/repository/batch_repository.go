package repository

import (
	"customs-web/internal/models"
	"strings"

	"github.com/jmoiron/sqlx"
)

type BatchRepository struct {
	db *sqlx.DB
}

func NewBatchRepository(db *sqlx.DB) *BatchRepository {
	return &BatchRepository{db: db}
}

// Batch Sessions
func (r *BatchRepository) CreateSession(session *models.BatchSession) error {
	query := `INSERT INTO batch_sessions (batch_code, calculator, filename, file_path,
	          total_rows, status, snapshot_version) VALUES (:batch_code, :calculator,
	          :filename, :file_path, :total_rows, :status, :snapshot_version)`
	result, err := r.db.NamedExec(query, session)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	session.ID = int(id)
	return nil
}

func (r *BatchRepository) GetSessionByID(id int) (*models.BatchSession, error) {
	var session models.BatchSession
	query := "SELECT * FROM batch_sessions WHERE id = ? LIMIT 1"
	err := r.db.Get(&session, query, id)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *BatchRepository) GetSessionByCode(code string) (*models.BatchSession, error) {
	var session models.BatchSession
	query := "SELECT * FROM batch_sessions WHERE batch_code = ? LIMIT 1"
	err := r.db.Get(&session, query, code)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *BatchRepository) GetSessions(limit, offset int, calculator, status string) ([]models.BatchSession, int, error) {
	var sessions []models.BatchSession
	var total int

	whereConditions := []string{}
	args := []interface{}{}

	if calculator != "" {
		whereConditions = append(whereConditions, "calculator = ?")
		args = append(args, calculator)
	}
	if status != "" {
		whereConditions = append(whereConditions, "status = ?")
		args = append(args, status)
	}

	whereClause := ""
	if len(whereConditions) > 0 {
		whereClause = "WHERE " + strings.Join(whereConditions, " AND ")
	}

	countQuery := "SELECT COUNT(*) FROM batch_sessions " + whereClause
	err := r.db.Get(&total, countQuery, args...)
	if err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM batch_sessions " + whereClause + " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)
	err = r.db.Select(&sessions, query, args...)
	if err != nil {
		return nil, 0, err
	}

	return sessions, total, nil
}

func (r *BatchRepository) UpdateSession(session *models.BatchSession) error {
	query := `UPDATE batch_sessions SET processed_rows = :processed_rows,
	          failed_rows = :failed_rows, status = :status, total_cif = :total_cif,
	          total_landed_cost = :total_landed_cost, error_message = :error_message
	          WHERE id = :id`
	_, err := r.db.NamedExec(query, session)
	return err
}

func (r *BatchRepository) UpdateSessionStatus(id int, status string) error {
	query := "UPDATE batch_sessions SET status = ? WHERE id = ?"
	_, err := r.db.Exec(query, status, id)
	return err
}

func (r *BatchRepository) DeleteSession(id int) error {
	query := "DELETE FROM batch_sessions WHERE id = ?"
	_, err := r.db.Exec(query, id)
	return err
}
