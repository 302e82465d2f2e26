package domain

import (
	"fmt"
	"slices"
)

// State is an immutable snapshot of the tracker: the ordered activity list
// and the id currently loaded for editing. Reduce never modifies a State it
// is given, so snapshots can be shared freely between readers.
type State struct {
	activities []Activity
	activeID   string
	revision   uint64
}

// NewState builds a snapshot by saving each activity in order. Later
// records replace earlier ones that share an id.
func NewState(activities ...Activity) State {
	var s State
	for _, a := range activities {
		s = Reduce(s, SaveActivity{Activity: a})
	}
	return s
}

// Action is a state transition.
//
//sumtype:decl
type Action interface {
	// Kind is the transition name used in logs and metrics.
	Kind() string
	isAction()
}

// SaveActivity appends a new record or replaces the record with the same id
// in place. The active selection is cleared.
type SaveActivity struct {
	Activity Activity
}

// SetActiveID selects a record for editing.
type SetActiveID struct {
	ID string
}

// DeleteActivity removes the record with ID; absent ids are a no-op.
type DeleteActivity struct {
	ID string
}

// ResetApp clears every record and the active selection.
type ResetApp struct{}

func (SaveActivity) Kind() string   { return "save-activity" }
func (SetActiveID) Kind() string    { return "set-active-id" }
func (DeleteActivity) Kind() string { return "delete-activity" }
func (ResetApp) Kind() string       { return "reset-app" }

func (SaveActivity) isAction()   {}
func (SetActiveID) isAction()    {}
func (DeleteActivity) isAction() {}
func (ResetApp) isAction()       {}

// Reduce applies a to s and returns the resulting snapshot.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SaveActivity:
		return s.save(a.Activity)
	case SetActiveID:
		return State{activities: s.activities, activeID: a.ID, revision: s.revision}
	case DeleteActivity:
		return s.delete(a.ID)
	case ResetApp:
		if len(s.activities) == 0 && s.activeID == "" {
			return s
		}
		rev := s.revision
		if len(s.activities) > 0 {
			rev++
		}
		return State{revision: rev}
	default:
		panic(fmt.Sprintf("domain: unhandled action %T", a))
	}
}

func (s State) save(a Activity) State {
	next := make([]Activity, 0, len(s.activities)+1)
	replaced := false
	for _, existing := range s.activities {
		if existing.ID == a.ID {
			next = append(next, a)
			replaced = true
			continue
		}
		next = append(next, existing)
	}
	if !replaced {
		next = append(next, a)
	}
	return State{activities: next, revision: s.revision + 1}
}

func (s State) delete(id string) State {
	idx := s.index(id)
	if idx < 0 {
		return s
	}
	next := make([]Activity, 0, len(s.activities)-1)
	next = append(next, s.activities[:idx]...)
	next = append(next, s.activities[idx+1:]...)

	activeID := s.activeID
	if activeID == id {
		activeID = ""
	}
	return State{activities: next, activeID: activeID, revision: s.revision + 1}
}

func (s State) index(id string) int {
	return slices.IndexFunc(s.activities, func(a Activity) bool { return a.ID == id })
}

// Revision increases every time the activity list changes. Selecting a
// record for editing does not change it.
func (s State) Revision() uint64 {
	return s.revision
}

// Activities returns a copy of the ordered activity list.
func (s State) Activities() []Activity {
	return slices.Clone(s.activities)
}

// Len is the number of recorded activities.
func (s State) Len() int {
	return len(s.activities)
}

// Find returns the activity with the given id.
func (s State) Find(id string) (Activity, bool) {
	idx := s.index(id)
	if idx < 0 {
		return Activity{}, false
	}
	return s.activities[idx], true
}

// ActiveID returns the id selected for editing, if any.
func (s State) ActiveID() (string, bool) {
	return s.activeID, s.activeID != ""
}

// Active looks up the record selected for editing.
func (s State) Active() (Activity, bool) {
	if s.activeID == "" {
		return Activity{}, false
	}
	return s.Find(s.activeID)
}

// CanReset reports whether there is anything to reset.
func (s State) CanReset() bool {
	return len(s.activities) > 0
}

// Totals derives the calorie aggregates from the activity list.
func (s State) Totals() Totals {
	return Summarize(s.activities)
}

// Totals holds the derived calorie aggregates.
type Totals struct {
	Consumed float64 `json:"caloriesConsumed"`
	Burned   float64 `json:"caloriesBurned"`
	Net      float64 `json:"netCalories"`
}

// Summarize sums calories by category. Net may be negative.
func Summarize(activities []Activity) Totals {
	var t Totals
	for _, a := range activities {
		switch a.Category {
		case CategoryConsumption:
			t.Consumed += a.Calories
		case CategoryExpenditure:
			t.Burned += a.Calories
		}
	}
	t.Net = t.Consumed - t.Burned
	return t
}

// In converts the totals from kcal into unit.
func (t Totals) In(unit string) Totals {
	return Totals{
		Consumed: ConvertEnergy(t.Consumed, UnitKcal, unit),
		Burned:   ConvertEnergy(t.Burned, UnitKcal, unit),
		Net:      ConvertEnergy(t.Net, UnitKcal, unit),
	}
}
