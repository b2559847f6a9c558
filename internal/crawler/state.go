package crawler

import (
	"sync"
	"time"

	"github.com/law-makers/scrape/pkg/models"
)

// Status is the lifecycle state of a crawl run
type Status string

const (
	StatusIdle      Status = "idle"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusAborted   Status = "aborted"
)

const logTimeFormat = "2006-01-02 15:04:05"

// Snapshot is a point-in-time copy of a run's published state
type Snapshot struct {
	RunID      string
	Status     Status
	Processed  int
	Total      int
	Progress   float64
	Log        []string
	Results    []models.Record
	StartedAt  time.Time
	FinishedAt time.Time
}

// State is written by the crawl goroutine and read by any number of
// observers. Readers only ever get copies.
type State struct {
	mu   sync.RWMutex
	snap Snapshot
}

func newState() *State {
	return &State{snap: Snapshot{Status: StatusIdle}}
}

func (s *State) start(runID string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.RunID = runID
	s.snap.Status = StatusRunning
	s.snap.StartedAt = at
}

func (s *State) setTotal(total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Total = total
	s.snap.Progress = progress(s.snap.Processed, total)
}

func (s *State) markProcessed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Processed++
	s.snap.Progress = progress(s.snap.Processed, s.snap.Total)
}

func (s *State) counts() (processed, total int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Processed, s.snap.Total
}

func (s *State) appendLog(at time.Time, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Log = append(s.snap.Log, "["+at.Format(logTimeFormat)+"] "+msg)
}

// finish publishes the final results in one step
func (s *State) finish(status Status, results []models.Record, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Status = status
	s.snap.Results = results
	s.snap.FinishedAt = at
}

// Snapshot returns a copy of the current state
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.snap
	out.Log = append([]string(nil), s.snap.Log...)
	if s.snap.Results != nil {
		out.Results = append([]models.Record(nil), s.snap.Results...)
	}
	return out
}

func progress(processed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(processed) / float64(total)
}
