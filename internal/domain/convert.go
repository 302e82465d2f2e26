package domain

const kcalToKJ = 4.184

// Energy units accepted for display.
const (
	UnitKcal = "kcal"
	UnitKJ   = "kJ"
)

// ValidEnergyUnit reports whether unit is "kcal" or "kJ".
func ValidEnergyUnit(unit string) bool {
	return unit == UnitKcal || unit == UnitKJ
}

// ConvertEnergy converts an energy value between "kcal" and "kJ".
// Returns v unchanged if from == to or if the units are unrecognised.
func ConvertEnergy(v float64, from, to string) float64 {
	if from == to {
		return v
	}
	if from == UnitKcal && to == UnitKJ {
		return v * kcalToKJ
	}
	if from == UnitKJ && to == UnitKcal {
		return v / kcalToKJ
	}
	return v
}
