package schedule

// Band is a run of consecutive minutes sharing the same admitted count.
type Band struct {
	Start    TimeOfDay
	End      TimeOfDay
	Admitted int
}

// FilterByPair returns the intervals booked for one (location, treatment) pair.
func FilterByPair(intervals []Interval, location, treatmentType int) []Interval {
	var filtered []Interval
	for _, iv := range intervals {
		if iv.Location == location && iv.TreatmentType == treatmentType {
			filtered = append(filtered, iv)
		}
	}
	return filtered
}

// overlapCounts builds the sweep-line counting array: index is minute-of-day,
// value is how many intervals cover that minute. Bounds are inclusive on both
// ends, so back-to-back slots sharing a boundary minute count as overlapping.
func overlapCounts(intervals []Interval) []int {
	if len(intervals) == 0 {
		return nil
	}
	maxEnd := 0
	for _, iv := range intervals {
		if iv.EndMinute > maxEnd {
			maxEnd = iv.EndMinute
		}
	}
	counts := make([]int, maxEnd+2)
	for _, iv := range intervals {
		for m := iv.StartMinute; m <= iv.EndMinute; m++ {
			counts[m]++
		}
	}
	return counts
}

// MaxOverlap returns the largest number of intervals simultaneously open at
// any single minute. Insertion order of the intervals is irrelevant.
func MaxOverlap(intervals []Interval) int {
	max := 0
	for _, c := range overlapCounts(intervals) {
		if c > max {
			max = c
		}
	}
	return max
}

// OccupancyBands splits the occupied minutes into maximal runs of equal
// admitted count, skipping unoccupied gaps.
func OccupancyBands(intervals []Interval) []Band {
	counts := overlapCounts(intervals)
	var bands []Band
	for i := 0; i < len(counts); i++ {
		if counts[i] == 0 {
			continue
		}
		start := i
		for i < len(counts) && counts[i] == counts[start] {
			i++
		}
		bands = append(bands, Band{
			Start:    TimeFromMinute(start),
			End:      TimeFromMinute(i - 1),
			Admitted: counts[start],
		})
		i--
	}
	return bands
}
