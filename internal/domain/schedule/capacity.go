package schedule

import "errors"

var (
	ErrNoLocations        = errors.New("at least one location is required")
	ErrNoTreatments       = errors.New("at least one treatment is required")
	ErrCostCountMismatch  = errors.New("treatment cost count does not match treatment count")
	ErrDurationMismatch   = errors.New("treatment duration count does not match treatment count")
	ErrCapacityMismatch   = errors.New("base capacity count does not match treatment count")
	ErrInvalidLocation    = errors.New("location index out of range")
	ErrInvalidTreatment   = errors.New("treatment index out of range")
	ErrNonPositiveMinutes = errors.New("treatment duration must be positive")
)

// CapacityTable holds the static per-clinic limits: cost and duration per
// treatment type, and the maximum number of concurrently admitted clients per
// (location, treatment) pair. Immutable after construction.
type CapacityTable struct {
	locations     int
	treatments    int
	cost          []int
	durationMin   []int
	maxConcurrent [][]int
}

// NewCapacityTable derives the full capacity matrix from the base row:
// location 0 uses baseCapacity as given, location l uses baseCapacity[t] * l.
func NewCapacityTable(locations, treatments int, cost, durationMin, baseCapacity []int) (CapacityTable, error) {
	if locations < 1 {
		return CapacityTable{}, ErrNoLocations
	}
	if treatments < 1 {
		return CapacityTable{}, ErrNoTreatments
	}
	if len(cost) != treatments {
		return CapacityTable{}, ErrCostCountMismatch
	}
	if len(durationMin) != treatments {
		return CapacityTable{}, ErrDurationMismatch
	}
	if len(baseCapacity) != treatments {
		return CapacityTable{}, ErrCapacityMismatch
	}
	for _, d := range durationMin {
		if d <= 0 {
			return CapacityTable{}, ErrNonPositiveMinutes
		}
	}

	maxConcurrent := make([][]int, locations)
	maxConcurrent[0] = append([]int(nil), baseCapacity...)
	for l := 1; l < locations; l++ {
		row := make([]int, treatments)
		for t := 0; t < treatments; t++ {
			row[t] = baseCapacity[t] * l
		}
		maxConcurrent[l] = row
	}

	return CapacityTable{
		locations:     locations,
		treatments:    treatments,
		cost:          append([]int(nil), cost...),
		durationMin:   append([]int(nil), durationMin...),
		maxConcurrent: maxConcurrent,
	}, nil
}

func (c CapacityTable) Locations() int {
	return c.locations
}

func (c CapacityTable) Treatments() int {
	return c.treatments
}

func (c CapacityTable) Cost(treatmentType int) int {
	return c.cost[treatmentType]
}

func (c CapacityTable) DurationMin(treatmentType int) int {
	return c.durationMin[treatmentType]
}

func (c CapacityTable) MaxConcurrent(location, treatmentType int) int {
	return c.maxConcurrent[location][treatmentType]
}

func (c CapacityTable) ValidateLocation(location int) error {
	if location < 0 || location >= c.locations {
		return ErrInvalidLocation
	}
	return nil
}

func (c CapacityTable) ValidateTreatment(treatmentType int) error {
	if treatmentType < 0 || treatmentType >= c.treatments {
		return ErrInvalidTreatment
	}
	return nil
}
