package domain

import (
	"math/rand"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
)

func day(y int, m int, d int) civil.Date {
	return civil.Date{Year: y, Month: timeMonth(m), Day: d}
}

func TestCountInPeriod(t *testing.T) {
	sorted := History{
		{Date: day(2024, 1, 1), Count: 3},
		{Date: day(2024, 1, 5), Count: 2},
		{Date: day(2024, 1, 10), Count: 7},
		{Date: day(2024, 2, 1), Count: 1},
	}

	t.Run("empty history counts zero", func(t *testing.T) {
		assert.Equal(t, 0, History(nil).CountInPeriod(day(2024, 1, 1), day(2024, 12, 31)))
	})

	t.Run("window bounds are inclusive", func(t *testing.T) {
		assert.Equal(t, 12, sorted.CountInPeriod(day(2024, 1, 1), day(2024, 1, 10)))
	})

	t.Run("no entries in window is zero", func(t *testing.T) {
		assert.Equal(t, 0, sorted.CountInPeriod(day(2023, 1, 1), day(2023, 12, 31)))
	})

	t.Run("inverted window is zero", func(t *testing.T) {
		assert.Equal(t, 0, sorted.CountInPeriod(day(2024, 2, 1), day(2024, 1, 1)))
	})

	t.Run("single day equals bucket value", func(t *testing.T) {
		assert.Equal(t, 7, sorted.CountOn(day(2024, 1, 10)))
		assert.Equal(t, 0, sorted.CountOn(day(2024, 1, 11)))
	})

	t.Run("one out of order pair disables early stop", func(t *testing.T) {
		h := History{
			{Date: day(2024, 1, 1), Count: 1},
			{Date: day(2024, 3, 1), Count: 1},
			{Date: day(2024, 1, 15), Count: 5},
		}
		assert.False(t, h.IsSorted())
		assert.Equal(t, 6, h.CountInPeriod(day(2024, 1, 1), day(2024, 1, 31)))
	})

	t.Run("invalid dates force the exhaustive scan and are skipped", func(t *testing.T) {
		h := History{
			{Date: day(2024, 1, 1), Count: 1},
			{Date: civil.Date{}, Count: 9},
			{Date: day(2024, 1, 2), Count: 2},
		}
		assert.False(t, h.IsSorted())
		assert.Equal(t, 3, h.CountInPeriod(day(2024, 1, 1), day(2024, 1, 31)))
	})
}

func TestCountInPeriod_OrderIndependent(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 50; trial++ {
		var sorted History
		d := day(2023, 11, 1)
		for i := 0; i < 60; i++ {
			d = d.AddDays(1 + rng.Intn(3))
			sorted = append(sorted, HistoryEntry{Date: d, Count: 1 + rng.Intn(20)})
		}
		shuffled := sorted.Clone()
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		start := day(2023, 11, 1).AddDays(rng.Intn(90))
		end := start.AddDays(rng.Intn(60))

		assert.True(t, sorted.IsSorted())
		assert.Equal(t, sorted.countExhaustive(start, end), sorted.countSorted(start, end))
		assert.Equal(t, sorted.CountInPeriod(start, end), shuffled.CountInPeriod(start, end))
	}
}
