package repository

import (
	"customs-web/internal/models"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type ResultRepository struct {
	db *sqlx.DB
}

func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// BulkInsertRows inserts calculated batch rows in chunks to stay under the
// MySQL placeholder limit (65535). Each row carries about 9 placeholders,
// so 5000 rows per chunk leaves plenty of headroom.
func (r *ResultRepository) BulkInsertRows(rows []models.BatchRowRecord) error {
	if len(rows) == 0 {
		return nil
	}

	const CHUNK_SIZE = 5000

	for i := 0; i < len(rows); i += CHUNK_SIZE {
		end := i + CHUNK_SIZE
		if end > len(rows) {
			end = len(rows)
		}

		chunk := rows[i:end]

		query := `INSERT INTO batch_rows (session_id, row_num, succeeded, hs_code,
		          description, cif_value, total_landed_cost, error_message, payload)
		          VALUES (:session_id, :row_num, :succeeded, :hs_code, :description,
		          :cif_value, :total_landed_cost, :error_message, :payload)`

		_, err := r.db.NamedExec(query, chunk)
		if err != nil {
			return fmt.Errorf("error inserting rows %d-%d: %w", i+1, end, err)
		}
	}

	return nil
}

func (r *ResultRepository) GetRowsBySession(sessionID int, limit, offset int) ([]models.BatchRowRecord, int, error) {
	var rows []models.BatchRowRecord
	var total int

	countQuery := "SELECT COUNT(*) FROM batch_rows WHERE session_id = ?"
	err := r.db.Get(&total, countQuery, sessionID)
	if err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM batch_rows WHERE session_id = ? ORDER BY row_num LIMIT ? OFFSET ?"
	err = r.db.Select(&rows, query, sessionID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

// GetAllRowsBySession returns every row of a session in source order, used
// when building exports and reports.
func (r *ResultRepository) GetAllRowsBySession(sessionID int) ([]models.BatchRowRecord, error) {
	var rows []models.BatchRowRecord
	query := "SELECT * FROM batch_rows WHERE session_id = ? ORDER BY row_num"
	err := r.db.Select(&rows, query, sessionID)
	return rows, err
}

func (r *ResultRepository) DeleteRowsBySession(sessionID int) error {
	query := "DELETE FROM batch_rows WHERE session_id = ?"
	_, err := r.db.Exec(query, sessionID)
	return err
}
