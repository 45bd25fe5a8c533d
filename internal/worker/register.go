package worker

import (
	"customs-web/internal/config"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// Task and queue names shared by the web process (enqueue side) and the
// worker (handle side).
const (
	TaskBatchCalculate = "batch:calculate"
	QueueBatches       = "batches"
)

// BatchCalculatePayload identifies the session a queued calculation runs.
type BatchCalculatePayload struct {
	SessionID int    `json:"session_id"`
	BatchCode string `json:"batch_code"`
}

// NewBatchCalculateTask builds the queue task for one uploaded session.
// The timeout allows for large files; retried tasks pass through Handle's
// status guard and skip once the session has finished.
func NewBatchCalculateTask(sessionID int, batchCode string) (*asynq.Task, error) {
	payload, err := json.Marshal(BatchCalculatePayload{
		SessionID: sessionID,
		BatchCode: batchCode,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(TaskBatchCalculate, payload,
		asynq.Queue(QueueBatches),
		asynq.MaxRetry(2),
		asynq.Timeout(30*time.Minute),
	), nil
}

func RegisterHandlers(mux *asynq.ServeMux, db *sqlx.DB, redis *redis.Client, cfg *config.Config) {
	batchHandler := NewBatchTaskHandler(db, redis, cfg)
	mux.HandleFunc(TaskBatchCalculate, batchHandler.Handle)
}
