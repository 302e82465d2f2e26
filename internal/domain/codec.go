package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ActivitiesKey is the key the activity list is persisted under.
const ActivitiesKey = "activities"

// ErrMalformedActivities is returned when persisted data cannot be decoded.
var ErrMalformedActivities = errors.New("malformed activity list")

// EncodeActivities serializes the list as a JSON array of
// {id, category, name, calories} objects. A nil list encodes as [].
func EncodeActivities(activities []Activity) ([]byte, error) {
	if activities == nil {
		activities = []Activity{}
	}
	return json.Marshal(activities)
}

// DecodeActivities parses a persisted activity list. Records without an id,
// with a category outside the lookup table or with calories outside
// [0, MaxCalories] make the whole payload malformed.
func DecodeActivities(data []byte) ([]Activity, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var out []Activity
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedActivities, err)
	}
	for i, a := range out {
		if a.ID == "" {
			return nil, fmt.Errorf("%w: record %d has no id", ErrMalformedActivities, i)
		}
		if !a.Category.Known() {
			return nil, fmt.Errorf("%w: record %d has unknown category %d", ErrMalformedActivities, i, int(a.Category))
		}
		if a.Calories < 0 || a.Calories > MaxCalories {
			return nil, fmt.Errorf("%w: record %d has calories %g out of range", ErrMalformedActivities, i, a.Calories)
		}
	}
	return out, nil
}
