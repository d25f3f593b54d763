package port

import "github.com/bnema/minute/internal/domain"

// JobStore is the process-wide job table. Implementations must be safe for
// concurrent use; reads return snapshots, never live records.
type JobStore interface {
	Insert(job *domain.Job) error
	Get(id string) (*domain.Job, error)
	// List returns up to limit jobs ordered by creation time descending,
	// plus the total number of jobs in the table.
	List(limit int) ([]*domain.Job, int, error)
	Delete(id string) error

	MarkProcessing(id, progress string) error
	SetProgress(id, progress string) error
	MarkCompleted(id, transcription, resultFile string) error
	MarkFailed(id string, jobErr error) error
}
