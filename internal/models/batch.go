package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

const (
	BatchStatusUploaded   = "uploaded"
	BatchStatusProcessing = "processing"
	BatchStatusCompleted  = "completed"
	BatchStatusFailed     = "failed"
	BatchStatusCanceled   = "canceled"
)

// BatchSession tracks one uploaded batch file through its lifecycle.
// SnapshotVersion is pinned when the session is created and every row in
// the batch is calculated against that version.
type BatchSession struct {
	ID              int             `db:"id" json:"id"`
	BatchCode       string          `db:"batch_code" json:"batch_code"`
	Calculator      string          `db:"calculator" json:"calculator"`
	Filename        string          `db:"filename" json:"filename"`
	FilePath        string          `db:"file_path" json:"file_path"`
	TotalRows       int             `db:"total_rows" json:"total_rows"`
	ProcessedRows   int             `db:"processed_rows" json:"processed_rows"`
	FailedRows      int             `db:"failed_rows" json:"failed_rows"`
	Status          string          `db:"status" json:"status"`
	SnapshotVersion string          `db:"snapshot_version" json:"snapshot_version"`
	TotalCIF        decimal.Decimal `db:"total_cif" json:"total_cif"`
	TotalLandedCost decimal.Decimal `db:"total_landed_cost" json:"total_landed_cost"`
	ErrorMessage    string          `db:"error_message" json:"error_message"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

// BatchRowRecord is the stored outcome of one batch row. Payload holds the
// full CalculationResult JSON for successful rows.
type BatchRowRecord struct {
	ID              int64           `db:"id" json:"id"`
	SessionID       int             `db:"session_id" json:"session_id"`
	RowNum          int             `db:"row_num" json:"row_num"`
	Succeeded       bool            `db:"succeeded" json:"succeeded"`
	HSCode          string          `db:"hs_code" json:"hs_code"`
	Description     string          `db:"description" json:"description"`
	CIFValue        decimal.Decimal `db:"cif_value" json:"cif_value"`
	TotalLandedCost decimal.Decimal `db:"total_landed_cost" json:"total_landed_cost"`
	ErrorMessage    string          `db:"error_message" json:"error_message"`
	Payload         json.RawMessage `db:"payload" json:"payload,omitempty"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}

// RateSnapshotRecord is a stored rate snapshot version. Payload is the
// snapshot document JSON exactly as imported.
type RateSnapshotRecord struct {
	ID          int             `db:"id" json:"id"`
	Version     string          `db:"version" json:"version"`
	Payload     json.RawMessage `db:"payload" json:"payload,omitempty"`
	IsActive    bool            `db:"is_active" json:"is_active"`
	LastUpdated time.Time       `db:"last_updated" json:"last_updated"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}
