// Package app holds the application services and business logic.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"calories/internal/domain"
	"calories/internal/observability"
)

// Tracker owns the activity state. Transitions are applied one at a time and
// every applied transition produces a new snapshot; snapshots handed out by
// Snapshot are never modified afterwards.
type Tracker struct {
	mu    sync.Mutex
	kv    domain.KeyValueStore
	log   *slog.Logger
	state domain.State

	summaryRev uint64
	summary    *domain.Totals

	persistErr error
}

// NewTracker creates an empty Tracker that persists through kv.
func NewTracker(kv domain.KeyValueStore, log *slog.Logger) *Tracker {
	if log == nil {
		log = slog.Default()
	}
	return &Tracker{kv: kv, log: log}
}

// Hydrate replaces the state with the list persisted in the store. Missing,
// unreadable or malformed data leaves the tracker empty.
func (t *Tracker) Hydrate(ctx context.Context) {
	var activities []domain.Activity

	raw, err := t.kv.Get(ctx, domain.ActivitiesKey)
	switch {
	case err != nil:
		t.log.Warn("read persisted activities; starting empty", "err", err)
		observability.RecordHydrateFallback()
	case raw == nil:
		t.log.Info("no persisted activities")
	default:
		activities, err = domain.DecodeActivities(raw)
		if err != nil {
			t.log.Warn("discarding persisted activities", "err", err)
			observability.RecordHydrateFallback()
			activities = nil
		}
	}

	state := domain.NewState(activities...)

	t.mu.Lock()
	t.state = state
	t.summary = nil
	t.mu.Unlock()

	observability.RecordState(state.Len(), state.Totals().Net)
	t.log.Info("activities loaded", "count", state.Len())
}

// Dispatch applies a transition and returns the resulting snapshot. When the
// activity list changed it is written to the store; a failed write is logged
// and does not undo the transition.
func (t *Tracker) Dispatch(ctx context.Context, action domain.Action) domain.State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.apply(ctx, action)
}

func (t *Tracker) apply(ctx context.Context, action domain.Action) domain.State {
	prev := t.state
	next := domain.Reduce(prev, action)
	t.state = next
	observability.RecordTransition(action.Kind())
	t.log.Debug("transition applied", "kind", action.Kind(), "activities", next.Len())

	if next.Revision() != prev.Revision() {
		observability.RecordState(next.Len(), next.Totals().Net)
		t.persist(ctx, next)
	}
	return next
}

func (t *Tracker) persist(ctx context.Context, s domain.State) {
	data, err := domain.EncodeActivities(s.Activities())
	if err == nil {
		err = t.kv.Set(ctx, domain.ActivitiesKey, data)
	}
	t.persistErr = err
	if err != nil {
		observability.RecordPersistFailure()
		t.log.Error("persist activities", "err", err, "revision", s.Revision())
	}
}

// PersistErr returns the error of the most recent write to the store, or nil
// when it succeeded. Transitions that do not change the list leave it as is.
func (t *Tracker) PersistErr() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.persistErr
}

// Submit validates a draft and saves it. A draft without an id is created
// with a fresh one; a draft carrying an existing id replaces that record.
func (t *Tracker) Submit(ctx context.Context, draft domain.Activity) (domain.Activity, error) {
	draft.Name = strings.TrimSpace(draft.Name)
	if err := draft.Validate(); err != nil {
		return domain.Activity{}, err
	}
	if draft.ID == "" {
		draft.ID = uuid.NewString()
	}
	t.Dispatch(ctx, domain.SaveActivity{Activity: draft})
	return draft, nil
}

// Edit selects an existing record for editing and returns it.
func (t *Tracker) Edit(ctx context.Context, id string) (domain.Activity, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	a, ok := t.state.Find(id)
	if !ok {
		return domain.Activity{}, fmt.Errorf("edit %q: %w", id, domain.ErrActivityNotFound)
	}
	t.apply(ctx, domain.SetActiveID{ID: id})
	return a, nil
}

// Delete removes a record and reports whether it existed.
func (t *Tracker) Delete(ctx context.Context, id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, existed := t.state.Find(id)
	t.apply(ctx, domain.DeleteActivity{ID: id})
	return existed
}

// Reset clears every record.
func (t *Tracker) Reset(ctx context.Context) {
	t.Dispatch(ctx, domain.ResetApp{})
}

// Snapshot returns the current state.
func (t *Tracker) Snapshot() domain.State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Active returns the record selected for editing, if any.
func (t *Tracker) Active() (domain.Activity, bool) {
	return t.Snapshot().Active()
}

// Summary returns the calorie totals of the current state. The result is
// reused until the activity list changes.
func (t *Tracker) Summary() domain.Totals {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.totalsLocked()
}

// View returns the current snapshot together with its totals, read under a
// single lock so the two always agree.
func (t *Tracker) View() (domain.State, domain.Totals) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state, t.totalsLocked()
}

func (t *Tracker) totalsLocked() domain.Totals {
	if t.summary == nil || t.summaryRev != t.state.Revision() {
		totals := t.state.Totals()
		t.summary = &totals
		t.summaryRev = t.state.Revision()
	}
	return *t.summary
}
