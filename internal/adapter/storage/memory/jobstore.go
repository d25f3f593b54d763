// Package memory holds the process-lifetime job table. Jobs are not durable
// by contract; a restart forgets them.
package memory

import (
	"sort"
	"sync"

	"github.com/bnema/minute/internal/domain"
	"github.com/bnema/minute/internal/port"
)

type JobStore struct {
	mu   sync.RWMutex
	jobs map[string]*domain.Job
}

func NewJobStore() *JobStore {
	return &JobStore{
		jobs: make(map[string]*domain.Job),
	}
}

func (s *JobStore) Insert(job *domain.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs[job.ID] = job.Clone()
	return nil
}

func (s *JobStore) Get(id string) (*domain.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return job.Clone(), nil
}

func (s *JobStore) List(limit int) ([]*domain.Job, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*domain.Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		all = append(all, job.Clone())
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := len(all)
	if limit >= 0 && limit < total {
		all = all[:limit]
	}
	return all, total, nil
}

func (s *JobStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.jobs, id)
	return nil
}

func (s *JobStore) MarkProcessing(id, progress string) error {
	return s.update(id, func(job *domain.Job) {
		job.Status = domain.JobStatusProcessing
		job.Progress = progress
	})
}

func (s *JobStore) SetProgress(id, progress string) error {
	return s.update(id, func(job *domain.Job) {
		job.Progress = progress
	})
}

func (s *JobStore) MarkCompleted(id, transcription, resultFile string) error {
	return s.update(id, func(job *domain.Job) {
		job.MarkAsCompleted(transcription, resultFile)
	})
}

func (s *JobStore) MarkFailed(id string, jobErr error) error {
	return s.update(id, func(job *domain.Job) {
		job.MarkAsFailed(jobErr)
	})
}

// update applies fn to the stored record under the write lock. Terminal jobs
// are left untouched: completed/failed never transitions again.
func (s *JobStore) update(id string, fn func(*domain.Job)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return domain.ErrNotFound
	}
	if job.IsTerminal() {
		return nil
	}
	fn(job)
	return nil
}

var _ port.JobStore = (*JobStore)(nil)
