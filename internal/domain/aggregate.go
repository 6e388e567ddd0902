package domain

import "cloud.google.com/go/civil"

// CountInPeriod sums the buckets whose date lies in [start, end].
//
// When every adjacent pair is verified to be in date order the scan stops at
// the first entry past end. Otherwise every entry is inspected. Both paths
// return the same total for the same entries.
func (h History) CountInPeriod(start, end civil.Date) int {
	if len(h) == 0 || end.Before(start) {
		return 0
	}
	if h.IsSorted() {
		return h.countSorted(start, end)
	}
	return h.countExhaustive(start, end)
}

// IsSorted reports whether the history is non-decreasing by date. It checks
// every adjacent pair; a single invalid date makes the history unsorted.
func (h History) IsSorted() bool {
	for i := range h {
		if !h[i].Date.IsValid() {
			return false
		}
		if i > 0 && h[i].Date.Before(h[i-1].Date) {
			return false
		}
	}
	return true
}

func (h History) countSorted(start, end civil.Date) int {
	total := 0
	for _, e := range h {
		if e.Date.Before(start) {
			continue
		}
		if e.Date.After(end) {
			break
		}
		total += e.Count
	}
	return total
}

func (h History) countExhaustive(start, end civil.Date) int {
	total := 0
	for _, e := range h {
		if !e.Date.IsValid() {
			continue
		}
		if e.Date.Before(start) || e.Date.After(end) {
			continue
		}
		total += e.Count
	}
	return total
}
