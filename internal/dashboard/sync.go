package dashboard

import (
	"context"
	"errors"
	"sync"

	"github.com/julianstephens/smarthabit/internal/api"
	"github.com/julianstephens/smarthabit/internal/logger"
	"github.com/julianstephens/smarthabit/internal/models"
	"github.com/julianstephens/smarthabit/internal/validation"
)

// ErrInFlight is returned when a habit is already being marked done.
var ErrInFlight = errors.New("add-log already in flight for this habit")

// HabitService is the part of the habits client the dashboard needs.
type HabitService interface {
	List(ctx context.Context) ([]models.Habit, error)
	Create(ctx context.Context, draft models.HabitDraft) (models.Habit, error)
	AddLog(ctx context.Context, id int) (api.LogResult, error)
	Delete(ctx context.Context, id int) error
}

// FetchResult is one completed list fetch.
type FetchResult struct {
	Gen    uint64
	Habits []models.Habit
	Err    error
}

// Syncer keeps the dashboard consistent with the server by pulling: every
// mutation is followed by a full re-fetch and nothing is patched locally.
// Fetches are numbered when issued and a result older than the last applied
// one is dropped, so the most recently issued fetch wins.
type Syncer struct {
	svc HabitService

	mu       sync.Mutex
	issued   uint64
	applied  uint64
	inFlight map[int]bool
}

func NewSyncer(svc HabitService) *Syncer {
	return &Syncer{svc: svc, inFlight: map[int]bool{}}
}

// Begin reserves the generation number of a new fetch.
func (s *Syncer) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// Fetch lists the habits under a generation obtained from Begin.
func (s *Syncer) Fetch(ctx context.Context, gen uint64) FetchResult {
	habits, err := s.svc.List(ctx)
	return FetchResult{Gen: gen, Habits: habits, Err: err}
}

// Refresh is Begin followed by Fetch.
func (s *Syncer) Refresh(ctx context.Context) FetchResult {
	return s.Fetch(ctx, s.Begin())
}

// Apply folds a fetch result into st. Stale results leave st unchanged and
// report false. A failed fetch keeps the habits already shown.
func (s *Syncer) Apply(st State, r FetchResult) (State, bool) {
	s.mu.Lock()
	if r.Gen <= s.applied {
		s.mu.Unlock()
		logger.Debug("dropping stale habit fetch", "gen", r.Gen, "applied", s.applied)
		return st, false
	}
	s.applied = r.Gen
	pending := r.Gen < s.issued
	s.mu.Unlock()

	st.Loading = pending
	st.Err = r.Err
	switch {
	case r.Err == nil:
		st.Habits = r.Habits
	case errors.Is(r.Err, api.ErrNotAList):
		st.Habits = nil
	}
	return st, true
}

// Create validates the draft before any call is made, then creates the habit.
// The caller re-fetches on success.
func (s *Syncer) Create(ctx context.Context, draft models.HabitDraft) (models.Habit, error) {
	if err := validation.ValidateDraft(draft); err != nil {
		return models.Habit{}, err
	}
	return s.svc.Create(ctx, draft)
}

// MarkDone logs today's completion. A second call for the same habit while the
// first is pending fails with ErrInFlight without reaching the server.
func (s *Syncer) MarkDone(ctx context.Context, id int) (api.LogResult, error) {
	s.mu.Lock()
	if s.inFlight[id] {
		s.mu.Unlock()
		return api.LogResult{}, ErrInFlight
	}
	s.inFlight[id] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.inFlight, id)
		s.mu.Unlock()
	}()
	return s.svc.AddLog(ctx, id)
}

// Delete removes a habit. It is refused while a mark-done for the same habit
// is outstanding. The caller re-fetches on success.
func (s *Syncer) Delete(ctx context.Context, id int) error {
	if s.Pending(id) {
		return ErrInFlight
	}
	return s.svc.Delete(ctx, id)
}

// Pending reports whether a mark-done call for id is outstanding.
func (s *Syncer) Pending(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight[id]
}
