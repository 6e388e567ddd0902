package domain

import "cloud.google.com/go/civil"

// HistoryEntry is one day's message count for a user.
type HistoryEntry struct {
	Date  civil.Date `json:"date"`
	Count int        `json:"count"`
}

// History holds a user's day buckets in insertion order. Insertion is
// normally chronological, but nothing here relies on it without checking.
type History []HistoryEntry

// Record adds one message to the bucket for day, creating it when missing.
// The bucket is located by date rather than by position.
func (h *History) Record(day civil.Date) {
	entries := *h
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Date == day {
			entries[i].Count++
			return
		}
	}
	*h = append(entries, HistoryEntry{Date: day, Count: 1})
}

// Total returns the sum of all bucket counts.
func (h History) Total() int {
	total := 0
	for _, e := range h {
		total += e.Count
	}
	return total
}

// CountOn returns the bucket value for a single day, or 0.
func (h History) CountOn(day civil.Date) int {
	return h.CountInPeriod(day, day)
}

// Clone returns an independent copy.
func (h History) Clone() History {
	if h == nil {
		return nil
	}
	out := make(History, len(h))
	copy(out, h)
	return out
}
