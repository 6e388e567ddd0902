package render

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/MessageStats_Go/internal/domain"
	"github.com/osse101/MessageStats_Go/internal/stats"
)

var today = civil.Date{Year: 2024, Month: time.January, Day: 17}

func result(values ...int) *stats.RankResult {
	r := &stats.RankResult{GroupName: "Guild", Type: domain.RankDaily, Today: today}
	for i, v := range values {
		r.Entries = append(r.Entries, domain.RankEntry{
			User:  &domain.UserRecord{UserID: string(rune('a' + i)), Nickname: "user-" + string(rune('a'+i))},
			Value: v,
		})
		r.Total += v
	}
	return r
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Message leaderboard (all time)", Title(domain.RankTotal, today))
	assert.Equal(t, "Message leaderboard for 2024-01-17", Title(domain.RankDaily, today))
	assert.Equal(t, "Message leaderboard for week 03 of 2024", Title(domain.RankWeekly, today))
	assert.Equal(t, "Message leaderboard for 2024-01", Title(domain.RankMonthly, today))
	assert.Equal(t, "Message leaderboard for 2024", Title(domain.RankYearly, today))
	assert.Equal(t, "Message leaderboard for last year (2023)", Title(domain.RankLastYear, today))

	for _, rt := range domain.RankTypes() {
		assert.NotEqual(t, rt.String(), Title(rt, today), "every rank type has a title")
	}
}

func TestNewView_PercentagesUseFullPopulation(t *testing.T) {
	v := NewView(result(6, 2, 2), 1)
	require.Len(t, v.Rows, 1)
	assert.Equal(t, 10, v.Total)
	assert.InDelta(t, 60.0, v.Rows[0].Percent, 0.001)
	assert.Equal(t, 1, v.Rows[0].Rank)
}

func TestText(t *testing.T) {
	v := NewView(result(3, 1), 20)
	text := Text(v)
	lines := strings.Split(text, "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Message leaderboard for 2024-01-17", lines[0])
	assert.Equal(t, "Total messages: 4", lines[1])
	assert.Equal(t, Separator, lines[2])
	assert.Equal(t, "1. user-a · 3 msgs (75.00%)", lines[3])
	assert.Equal(t, "2. user-b · 1 msgs (25.00%)", lines[4])

	assert.Equal(t, EmptyRankMessage, Text(NewView(result(), 20)))
}

type failingImages struct{}

func (failingImages) Render(ctx context.Context, v View) (string, error) {
	return "", errors.New("font missing")
}

func TestPresenter(t *testing.T) {
	ctx := context.Background()
	v := NewView(result(3, 1), 20)

	t.Run("falls back to text on image failure", func(t *testing.T) {
		out := NewPresenter(failingImages{}).Present(ctx, v, true)
		assert.Empty(t, out.ImagePath)
		assert.Equal(t, Text(v), out.Text)
	})

	t.Run("text mode skips image", func(t *testing.T) {
		out := NewPresenter(failingImages{}).Present(ctx, v, false)
		assert.Empty(t, out.ImagePath)
	})

	t.Run("image mode writes a png", func(t *testing.T) {
		out := NewPresenter(NewImageRenderer(t.TempDir())).Present(ctx, v, true)
		require.NotEmpty(t, out.ImagePath)
		data, err := os.ReadFile(out.ImagePath)
		require.NoError(t, err)
		assert.Equal(t, []byte("\x89PNG"), data[:4])
	})

	t.Run("single row and tied rows still draw", func(t *testing.T) {
		tests := []struct {
			name   string
			values []int
		}{
			{"one row", []int{3}},
			{"all tied", []int{2, 2}},
			{"one message", []int{1}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				path, err := NewImageRenderer(t.TempDir()).Render(ctx, NewView(result(tt.values...), 20))
				require.NoError(t, err)
				data, err := os.ReadFile(path)
				require.NoError(t, err)
				assert.Equal(t, []byte("\x89PNG"), data[:4])
			})
		}
	})

	t.Run("empty rank is always text", func(t *testing.T) {
		out := NewPresenter(NewImageRenderer(t.TempDir())).Present(ctx, NewView(result(), 20), true)
		assert.Empty(t, out.ImagePath)
		assert.Equal(t, EmptyRankMessage, out.Text)
	})
}

func TestShorten(t *testing.T) {
	assert.Equal(t, "short", shorten("short"))
	long := shorten("a-very-long-display-name")
	assert.Equal(t, chartMaxLabelRune, len([]rune(long)))
}
