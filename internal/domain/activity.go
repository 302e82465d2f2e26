package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrInvalidActivity indicates a submission that fails the validity predicate.
	ErrInvalidActivity = errors.New("invalid activity")
	// ErrActivityNotFound is returned when no activity carries the requested id.
	ErrActivityNotFound = errors.New("activity not found")
)

// Category classifies an activity as caloric intake or expenditure.
// The numeric values are part of the persisted format.
type Category int

const (
	CategoryConsumption Category = 1
	CategoryExpenditure Category = 2
)

// CategoryOption is one row of the static category lookup table.
type CategoryOption struct {
	ID        Category `json:"id"`
	Name      string   `json:"name"`
	SaveLabel string   `json:"saveLabel"`
}

var categories = []CategoryOption{
	{ID: CategoryConsumption, Name: "Food", SaveLabel: "Save Food"},
	{ID: CategoryExpenditure, Name: "Exercise", SaveLabel: "Save Exercise"},
}

// Categories returns the category lookup table in display order.
func Categories() []CategoryOption {
	out := make([]CategoryOption, len(categories))
	copy(out, categories)
	return out
}

func (c Category) option() (CategoryOption, bool) {
	for _, o := range categories {
		if o.ID == c {
			return o, true
		}
	}
	return CategoryOption{}, false
}

// Known reports whether c is present in the lookup table.
func (c Category) Known() bool {
	_, ok := c.option()
	return ok
}

func (c Category) String() string {
	if o, ok := c.option(); ok {
		return o.Name
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// SaveLabel is the label of the submit action for a draft in this category.
// Unknown categories have no label.
func (c Category) SaveLabel() string {
	o, _ := c.option()
	return o.SaveLabel
}

// ParseCategory accepts a category id ("1", "2") or a case-insensitive name.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, o := range categories {
		if strings.EqualFold(s, o.Name) || s == fmt.Sprint(int(o.ID)) {
			return o.ID, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown category %q", ErrInvalidActivity, s)
}

// MaxCalories bounds a single record so that sums over any realistic list
// stay finite.
const MaxCalories = 1e6

// Activity is a single logged event: food consumed or exercise performed.
type Activity struct {
	ID       string   `json:"id"`
	Category Category `json:"category"`
	Name     string   `json:"name"`
	Calories float64  `json:"calories"`
}

// NewDraft returns the empty form a new submission starts from.
func NewDraft() Activity {
	return Activity{Category: CategoryConsumption}
}

// Validate applies the submission predicate: a known category, a name that is
// not blank and a calorie value in (0, MaxCalories].
func (a Activity) Validate() error {
	if !a.Category.Known() {
		return fmt.Errorf("%w: unknown category %d", ErrInvalidActivity, int(a.Category))
	}
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidActivity)
	}
	if math.IsNaN(a.Calories) || math.IsInf(a.Calories, 0) || a.Calories <= 0 {
		return fmt.Errorf("%w: calories must be > 0", ErrInvalidActivity)
	}
	if a.Calories > MaxCalories {
		return fmt.Errorf("%w: calories must not exceed %g", ErrInvalidActivity, float64(MaxCalories))
	}
	return nil
}

// Valid reports whether a may be submitted.
func (a Activity) Valid() bool {
	return a.Validate() == nil
}
