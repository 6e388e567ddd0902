package render

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"github.com/osse101/MessageStats_Go/internal/domain"
	"github.com/osse101/MessageStats_Go/internal/stats"
)

var titleFormats = map[domain.RankType]func(today civil.Date) string{
	domain.RankTotal: func(civil.Date) string {
		return "Message leaderboard (all time)"
	},
	domain.RankDaily: func(today civil.Date) string {
		return "Message leaderboard for " + today.String()
	},
	domain.RankWeekly: func(today civil.Date) string {
		year, week := today.In(time.UTC).ISOWeek()
		return fmt.Sprintf("Message leaderboard for week %02d of %d", week, year)
	},
	domain.RankMonthly: func(today civil.Date) string {
		return fmt.Sprintf("Message leaderboard for %04d-%02d", today.Year, int(today.Month))
	},
	domain.RankYearly: func(today civil.Date) string {
		return fmt.Sprintf("Message leaderboard for %d", today.Year)
	},
	domain.RankLastYear: func(today civil.Date) string {
		return fmt.Sprintf("Message leaderboard for last year (%d)", today.Year-1)
	},
}

// Title names the leaderboard of rankType as seen on today.
func Title(rankType domain.RankType, today civil.Date) string {
	if f, ok := titleFormats[rankType]; ok {
		return f(today)
	}
	return rankType.String()
}

// Row is one displayed leaderboard line.
type Row struct {
	Rank    int
	Name    string
	Count   int
	Percent float64
}

// View is a leaderboard ready for display. Percentages are shares of
// Total, which covers every ranked user, not only the displayed rows.
type View struct {
	Title     string
	GroupName string
	Total     int
	Rows      []Row
}

// NewView keeps the first limit entries of result.
func NewView(result *stats.RankResult, limit int) View {
	v := View{
		Title:     Title(result.Type, result.Today),
		GroupName: result.GroupName,
		Total:     result.Total,
	}
	n := min(limit, len(result.Entries))
	v.Rows = make([]Row, 0, max(n, 0))
	for i := 0; i < n; i++ {
		e := result.Entries[i]
		pct := 0.0
		if result.Total > 0 {
			pct = float64(e.Value) * 100 / float64(result.Total)
		}
		v.Rows = append(v.Rows, Row{Rank: i + 1, Name: e.User.Nickname, Count: e.Value, Percent: pct})
	}
	return v
}

// Text renders the plain-text leaderboard.
func Text(v View) string {
	if len(v.Rows) == 0 {
		return EmptyRankMessage
	}
	var b strings.Builder
	b.WriteString(v.Title)
	b.WriteString("\n")
	b.WriteString(TotalLinePrefix)
	fmt.Fprintf(&b, "%d\n", v.Total)
	b.WriteString(Separator)
	for _, r := range v.Rows {
		b.WriteString("\n")
		fmt.Fprintf(&b, rowFormat, r.Rank, r.Name, r.Count, r.Percent)
	}
	return b.String()
}
