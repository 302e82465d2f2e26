package domain_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calories/internal/domain"
)

func rice(id string) domain.Activity {
	return domain.Activity{ID: id, Category: domain.CategoryConsumption, Name: "Rice", Calories: 300}
}

func run(id string) domain.Activity {
	return domain.Activity{ID: id, Category: domain.CategoryExpenditure, Name: "Run", Calories: 200}
}

func save(s domain.State, a domain.Activity) domain.State {
	return domain.Reduce(s, domain.SaveActivity{Activity: a})
}

func TestSaveActivity_SingleConsumption(t *testing.T) {
	s := save(domain.State{}, rice("a"))

	require.Equal(t, 1, s.Len())
	assert.Equal(t, domain.Totals{Consumed: 300, Burned: 0, Net: 300}, s.Totals())
}

func TestSaveActivity_NetBalance(t *testing.T) {
	s := save(save(domain.State{}, rice("a")), run("b"))

	assert.Equal(t, 100.0, s.Totals().Net)
	assert.Equal(t, []domain.Activity{rice("a"), run("b")}, s.Activities())
}

func TestSaveActivity_ReplacesInPlace(t *testing.T) {
	s := save(domain.State{}, rice("x"))
	s = save(s, domain.Activity{ID: "x", Category: domain.CategoryConsumption, Name: "Bread", Calories: 150})

	require.Equal(t, 1, s.Len())
	got, ok := s.Find("x")
	require.True(t, ok)
	assert.Equal(t, "Bread", got.Name)
	assert.Equal(t, 150.0, got.Calories)
	assert.Equal(t, 150.0, s.Totals().Consumed)
}

func TestSaveActivity_PreservesPosition(t *testing.T) {
	s := domain.NewState(rice("a"), run("b"), rice("c"))
	s = save(s, domain.Activity{ID: "b", Category: domain.CategoryExpenditure, Name: "Swim", Calories: 400})

	ids := make([]string, 0, s.Len())
	for _, a := range s.Activities() {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
	assert.Equal(t, "Swim", s.Activities()[1].Name)
}

func TestSaveActivity_ClearsActiveID(t *testing.T) {
	s := domain.Reduce(domain.NewState(rice("a")), domain.SetActiveID{ID: "a"})
	_, ok := s.ActiveID()
	require.True(t, ok)

	s = save(s, rice("a"))
	_, ok = s.ActiveID()
	assert.False(t, ok)
}

func TestSetActiveID(t *testing.T) {
	s := domain.NewState(rice("a"), run("b"))
	next := domain.Reduce(s, domain.SetActiveID{ID: "b"})

	id, ok := next.ActiveID()
	require.True(t, ok)
	assert.Equal(t, "b", id)

	active, ok := next.Active()
	require.True(t, ok)
	assert.Equal(t, run("b"), active)
	assert.Equal(t, s.Revision(), next.Revision(), "selection must not bump the revision")
}

func TestDeleteActivity_RemovesFirst(t *testing.T) {
	s := domain.NewState(rice("a"), run("b"))
	s = domain.Reduce(s, domain.DeleteActivity{ID: "a"})

	assert.Equal(t, []domain.Activity{run("b")}, s.Activities())
	assert.Equal(t, domain.Totals{Consumed: 0, Burned: 200, Net: -200}, s.Totals())
}

func TestDeleteActivity_AbsentIsNoop(t *testing.T) {
	s := domain.Reduce(domain.NewState(rice("a"), run("b")), domain.SetActiveID{ID: "a"})
	next := domain.Reduce(s, domain.DeleteActivity{ID: "missing"})

	assert.Equal(t, s, next)
}

func TestDeleteActivity_ClearsActiveSelection(t *testing.T) {
	s := domain.Reduce(domain.NewState(rice("a"), run("b")), domain.SetActiveID{ID: "a"})

	s = domain.Reduce(s, domain.DeleteActivity{ID: "a"})
	_, ok := s.ActiveID()
	assert.False(t, ok)

	s = domain.Reduce(s, domain.SetActiveID{ID: "b"})
	s = domain.Reduce(domain.Reduce(s, domain.SaveActivity{Activity: rice("c")}), domain.SetActiveID{ID: "b"})
	s = domain.Reduce(s, domain.DeleteActivity{ID: "c"})
	id, ok := s.ActiveID()
	require.True(t, ok, "deleting another record keeps the selection")
	assert.Equal(t, "b", id)
}

func TestResetApp(t *testing.T) {
	s := domain.Reduce(domain.NewState(rice("a"), run("b")), domain.SetActiveID{ID: "b"})
	s = domain.Reduce(s, domain.ResetApp{})

	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Activities())
	_, ok := s.ActiveID()
	assert.False(t, ok)
	assert.Equal(t, domain.Totals{}, s.Totals())
	assert.False(t, s.CanReset())

	again := domain.Reduce(s, domain.ResetApp{})
	assert.Equal(t, s, again)
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	s := domain.NewState(rice("a"), run("b"))
	before := s.Activities()

	_ = save(s, domain.Activity{ID: "a", Category: domain.CategoryConsumption, Name: "Soup", Calories: 90})
	_ = domain.Reduce(s, domain.DeleteActivity{ID: "b"})
	_ = domain.Reduce(s, domain.ResetApp{})

	assert.Equal(t, before, s.Activities())
}

func TestActivities_ReturnsCopy(t *testing.T) {
	s := domain.NewState(rice("a"))
	list := s.Activities()
	list[0].Name = "changed"

	got, _ := s.Find("a")
	assert.Equal(t, "Rice", got.Name)
}

func TestNewState_DeduplicatesIDs(t *testing.T) {
	s := domain.NewState(rice("a"), run("b"), domain.Activity{ID: "a", Category: domain.CategoryConsumption, Name: "Bread", Calories: 150})

	require.Equal(t, 2, s.Len())
	assert.Equal(t, "Bread", s.Activities()[0].Name)
}

func TestCanReset(t *testing.T) {
	assert.False(t, domain.State{}.CanReset())
	assert.True(t, domain.NewState(rice("a")).CanReset())
}

func TestTotalsIn(t *testing.T) {
	totals := domain.NewState(rice("a"), run("b")).Totals().In(domain.UnitKJ)
	assert.InDelta(t, 1255.2, totals.Consumed, 0.001)
	assert.InDelta(t, 836.8, totals.Burned, 0.001)
	assert.InDelta(t, 418.4, totals.Net, 0.001)
}

// Random transition sequences must keep ids unique and the aggregates
// consistent with the list.
func TestReduce_RandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	ids := []string{"a", "b", "c", "d", "e"}

	for round := 0; round < 200; round++ {
		var s domain.State
		for step := 0; step < 40; step++ {
			id := ids[rng.Intn(len(ids))]
			var action domain.Action
			switch rng.Intn(10) {
			case 0:
				action = domain.ResetApp{}
			case 1, 2:
				action = domain.DeleteActivity{ID: id}
			case 3:
				if _, ok := s.Find(id); ok {
					action = domain.SetActiveID{ID: id}
				} else {
					action = domain.DeleteActivity{ID: id}
				}
			default:
				cat := domain.CategoryConsumption
				if rng.Intn(2) == 0 {
					cat = domain.CategoryExpenditure
				}
				action = domain.SaveActivity{Activity: domain.Activity{
					ID:       id,
					Category: cat,
					Name:     fmt.Sprintf("item-%d", step),
					Calories: float64(rng.Intn(500)),
				}}
			}

			prevLen := s.Len()
			_, existed := s.Find(id)
			s = domain.Reduce(s, action)

			if sa, ok := action.(domain.SaveActivity); ok {
				if existed {
					require.Equal(t, prevLen, s.Len())
				} else {
					require.Equal(t, prevLen+1, s.Len())
					require.Equal(t, sa.Activity, s.Activities()[s.Len()-1])
				}
			}

			seen := map[string]bool{}
			var consumed, burned, all float64
			for _, a := range s.Activities() {
				require.False(t, seen[a.ID], "duplicate id %q", a.ID)
				seen[a.ID] = true
				all += a.Calories
				if a.Category == domain.CategoryConsumption {
					consumed += a.Calories
				} else {
					burned += a.Calories
				}
			}
			totals := s.Totals()
			require.Equal(t, consumed, totals.Consumed)
			require.Equal(t, burned, totals.Burned)
			require.Equal(t, all, totals.Consumed+totals.Burned)
			require.Equal(t, totals.Consumed-totals.Burned, totals.Net)

			if activeID, ok := s.ActiveID(); ok {
				require.True(t, seen[activeID], "active id %q dangles", activeID)
			}
		}
	}
}

func TestActionKinds(t *testing.T) {
	assert.Equal(t, "save-activity", domain.SaveActivity{}.Kind())
	assert.Equal(t, "set-active-id", domain.SetActiveID{}.Kind())
	assert.Equal(t, "delete-activity", domain.DeleteActivity{}.Kind())
	assert.Equal(t, "reset-app", domain.ResetApp{}.Kind())
}
