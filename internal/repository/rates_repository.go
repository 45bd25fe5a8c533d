package repository

import (
	"customs-web/internal/models"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

type RatesRepository struct {
	db *sqlx.DB
}

func NewRatesRepository(db *sqlx.DB) *RatesRepository {
	return &RatesRepository{db: db}
}

// The web process runs without a database in development. A nil db reads as
// "nothing imported" so snapshot resolution can fall back to file or defaults.
func (r *RatesRepository) GetActive() (*models.RateSnapshotRecord, error) {
	if r.db == nil {
		return nil, sql.ErrNoRows
	}

	var record models.RateSnapshotRecord
	query := "SELECT * FROM rate_snapshots WHERE is_active = TRUE ORDER BY id DESC LIMIT 1"
	err := r.db.Get(&record, query)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *RatesRepository) GetByVersion(version string) (*models.RateSnapshotRecord, error) {
	if r.db == nil {
		return nil, sql.ErrNoRows
	}

	var record models.RateSnapshotRecord
	query := "SELECT * FROM rate_snapshots WHERE version = ? LIMIT 1"
	err := r.db.Get(&record, query, version)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// GetVersions lists stored snapshot versions newest first. The payload column
// is left out so listings stay light.
func (r *RatesRepository) GetVersions(limit, offset int) ([]models.RateSnapshotRecord, int, error) {
	if r.db == nil {
		return nil, 0, errors.New("database not available")
	}

	var records []models.RateSnapshotRecord
	var total int

	countQuery := "SELECT COUNT(*) FROM rate_snapshots"
	err := r.db.Get(&total, countQuery)
	if err != nil {
		return nil, 0, err
	}

	query := `SELECT id, version, is_active, last_updated, created_at FROM rate_snapshots
	          ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	err = r.db.Select(&records, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// ImportSnapshot stores a snapshot version and makes it the only active one.
// Re-importing an existing version replaces its payload in place.
func (r *RatesRepository) ImportSnapshot(record *models.RateSnapshotRecord) error {
	if r.db == nil {
		return errors.New("database not available")
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec("UPDATE rate_snapshots SET is_active = FALSE WHERE is_active = TRUE")
	if err != nil {
		return err
	}

	query := `INSERT INTO rate_snapshots (version, payload, is_active, last_updated)
	          VALUES (:version, :payload, :is_active, :last_updated)
	          ON DUPLICATE KEY UPDATE
	          payload = VALUES(payload),
	          is_active = VALUES(is_active),
	          last_updated = VALUES(last_updated)`
	_, err = tx.NamedExec(query, record)
	if err != nil {
		return err
	}

	return tx.Commit()
}
