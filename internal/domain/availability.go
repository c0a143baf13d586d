package domain

import "sort"

// Interval is a half-open [Start, End) interval in minutes since midnight.
type Interval struct {
	Start int
	End   int
}

// FreeWindows computes the bookable windows of a single working day.
// Busy intervals are widened by bufferMin on both sides and subtracted from
// the working hours, then the remainder is cut into windows of granularityMin
// minutes. Leftovers shorter than the granularity are dropped.
func FreeWindows(day DaySchedule, busy []Interval, bufferMin, granularityMin int) ([]Interval, error) {
	if !day.IsWorking || granularityMin <= 0 {
		return nil, nil
	}

	workStart, err := day.Start.Minutes()
	if err != nil {
		return nil, err
	}
	workEnd, err := day.End.Minutes()
	if err != nil {
		return nil, err
	}
	if workEnd <= workStart {
		return nil, nil
	}

	blocked := make([]Interval, 0, len(busy))
	for _, b := range busy {
		bl := Interval{Start: b.Start - bufferMin, End: b.End + bufferMin}
		if bl.Start < workStart {
			bl.Start = workStart
		}
		if bl.End > workEnd {
			bl.End = workEnd
		}
		if bl.End > bl.Start {
			blocked = append(blocked, bl)
		}
	}
	blocked = MergeIntervals(blocked)

	free := make([]Interval, 0, len(blocked)+1)
	cursor := workStart
	for _, bl := range blocked {
		if bl.Start > cursor {
			free = append(free, Interval{Start: cursor, End: bl.Start})
		}
		if bl.End > cursor {
			cursor = bl.End
		}
	}
	if cursor < workEnd {
		free = append(free, Interval{Start: cursor, End: workEnd})
	}

	var windows []Interval
	for _, f := range free {
		for t := f.Start; t+granularityMin <= f.End; t += granularityMin {
			windows = append(windows, Interval{Start: t, End: t + granularityMin})
		}
	}
	return windows, nil
}

// MergeIntervals sorts the intervals and merges overlapping and adjacent ones.
func MergeIntervals(list []Interval) []Interval {
	if len(list) < 2 {
		return list
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Start < list[j].Start })

	merged := list[:1]
	for _, cur := range list[1:] {
		last := &merged[len(merged)-1]
		if cur.Start <= last.End {
			if cur.End > last.End {
				last.End = cur.End
			}
			continue
		}
		merged = append(merged, cur)
	}
	return merged
}
