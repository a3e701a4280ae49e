package ingest

import "fmt"

// Family identifies one metric family, and doubles as the table name
// the family is persisted under.
type Family string

const (
	FamilyRacePredictions Family = "race_predictions"
	FamilyTrainingHistory Family = "training_history"
	FamilyHeatAltitude    Family = "heat_altitude_metrics"
	FamilyActivities      Family = "activities"

	// remote-only families, produced by the cloud API fetcher
	FamilyHeartRate       Family = "heart_rate"
	FamilySleep           Family = "sleep"
	FamilySleepLevels     Family = "sleep_levels"
	FamilyStress          Family = "stress"
	FamilyBodyComposition Family = "body_composition"
)

// ExportFamilies are the families found in export files, in parse order.
var ExportFamilies = []Family{
	FamilyRacePredictions,
	FamilyTrainingHistory,
	FamilyHeatAltitude,
	FamilyActivities,
}

// Patterns are the file name globs for one family. Fallback patterns are
// only consulted when nothing matches a primary one.
type Patterns struct {
	Primary  []string
	Fallback []string
}

func (p Patterns) All() []string {
	return append(append([]string{}, p.Primary...), p.Fallback...)
}

var familyPatterns = map[Family]Patterns{
	FamilyRacePredictions: {
		Primary: []string{"*RunRacePredictions*.json"},
	},
	FamilyTrainingHistory: {
		Primary:  []string{"*TrainingHistory*.json"},
		Fallback: []string{"*EnduranceScore*.json"},
	},
	FamilyHeatAltitude: {
		Primary:  []string{"*MetricsHeatAltitude*.json"},
		Fallback: []string{"*MetricsAcuteTrainingLoad*.json"},
	},
	FamilyActivities: {
		Primary: []string{"*summarizedActivities*.json"},
	},
}

func PatternsFor(family Family) (Patterns, error) {
	p, ok := familyPatterns[family]
	if !ok {
		return Patterns{}, fmt.Errorf("%w: %s", ErrUnknownFamily, family)
	}
	return p, nil
}

func ParseFamily(s string) (Family, error) {
	f := Family(s)
	switch f {
	case FamilyRacePredictions, FamilyTrainingHistory, FamilyHeatAltitude, FamilyActivities,
		FamilyHeartRate, FamilySleep, FamilySleepLevels, FamilyStress, FamilyBodyComposition:
		return f, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFamily, s)
}
