package stats_bench

import (
	"context"
	"fmt"
	"testing"
	"time"

	"cloud.google.com/go/civil"

	"github.com/osse101/MessageStats_Go/internal/domain"
	"github.com/osse101/MessageStats_Go/internal/stats"
	"github.com/osse101/MessageStats_Go/internal/store"
	"github.com/osse101/MessageStats_Go/internal/testing/memrepo"
)

// --- Stubs (Zero-overhead mocks for benchmarking) ---

type StubSettings struct{}

func (StubSettings) Get(ctx context.Context) (domain.Settings, error) {
	return domain.DefaultSettings(), nil
}

const (
	benchGroup = "bench-group"
	benchUsers = 500
	benchDays  = 730
)

var benchNow = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

// buildHistory returns two years of daily buckets ending at end.
func buildHistory(end civil.Date, days int) domain.History {
	h := make(domain.History, 0, days)
	for d := days - 1; d >= 0; d-- {
		h = append(h, domain.HistoryEntry{Date: end.AddDays(-d), Count: d%7 + 1})
	}
	return h
}

func buildGroup() *domain.GroupStore {
	g := domain.NewGroupStore(benchGroup, "Bench")
	end := civil.DateOf(benchNow)
	for i := 0; i < benchUsers; i++ {
		u := g.UserOrCreate(fmt.Sprintf("%d", 100000+i), fmt.Sprintf("user-%d", i))
		u.History = buildHistory(end, benchDays)
		u.MessageCount = u.History.Total()
		u.Roles = []int64{int64(i % 5)}
	}
	return g
}

func BenchmarkCountInPeriod(b *testing.B) {
	end := civil.DateOf(benchNow)
	start := end.AddDays(-30)
	sorted := buildHistory(end, benchDays)

	unsorted := sorted.Clone()
	unsorted[0], unsorted[len(unsorted)-1] = unsorted[len(unsorted)-1], unsorted[0]

	b.Run("Sorted", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_ = sorted.CountInPeriod(start, end)
		}
	})
	b.Run("Unsorted", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_ = unsorted.CountInPeriod(start, end)
		}
	})
}

func BenchmarkGetRank(b *testing.B) {
	ctx := context.Background()
	st := store.New(memrepo.NewGroups(buildGroup()), store.Config{CacheSize: 16, CacheTTL: time.Hour})
	svc := stats.NewService(st, nil, StubSettings{}, stats.Config{
		Location: time.UTC,
		Now:      func() time.Time { return benchNow },
	})

	for _, rt := range domain.RankTypes() {
		b.Run(rt.String(), func(b *testing.B) {
			req := stats.RankRequest{GroupID: benchGroup, Type: rt}
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := svc.GetRank(ctx, req); err != nil {
					b.Fatal(err)
				}
			}
		})
	}

	b.Run("RoleFiltered", func(b *testing.B) {
		req := stats.RankRequest{GroupID: benchGroup, Type: domain.RankMonthly, Roles: []int64{1, 3}}
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if _, err := svc.GetRank(ctx, req); err != nil {
				b.Fatal(err)
			}
		}
	})
}

func BenchmarkRecordMessage(b *testing.B) {
	ctx := context.Background()
	st := store.New(memrepo.NewGroups(), store.Config{CacheSize: 16, CacheTTL: time.Hour})
	svc := stats.NewService(st, nil, StubSettings{}, stats.Config{
		Location: time.UTC,
		Now:      func() time.Time { return benchNow },
	})

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		msg := stats.Message{
			GroupID:    benchGroup,
			UserID:     fmt.Sprintf("%d", 100000+i%benchUsers),
			SenderName: "bench",
		}
		if _, err := svc.RecordMessage(ctx, msg); err != nil {
			b.Fatal(err)
		}
	}
}
