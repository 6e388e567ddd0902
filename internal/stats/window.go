package stats

import (
	"time"

	"cloud.google.com/go/civil"

	"github.com/osse101/MessageStats_Go/internal/domain"
)

// Window is a closed date interval.
type Window struct {
	Start civil.Date
	End   civil.Date
}

// Contains reports whether d lies within the window.
func (w Window) Contains(d civil.Date) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

var windowResolvers = map[domain.RankType]func(today civil.Date) Window{
	domain.RankDaily: func(today civil.Date) Window {
		return Window{Start: today, End: today}
	},
	domain.RankWeekly: func(today civil.Date) Window {
		return Window{Start: WeekStart(today), End: today}
	},
	domain.RankMonthly: func(today civil.Date) Window {
		return Window{Start: civil.Date{Year: today.Year, Month: today.Month, Day: 1}, End: today}
	},
	domain.RankYearly: func(today civil.Date) Window {
		return Window{Start: civil.Date{Year: today.Year, Month: time.January, Day: 1}, End: today}
	},
	domain.RankLastYear: func(today civil.Date) Window {
		y := today.Year - 1
		return Window{
			Start: civil.Date{Year: y, Month: time.January, Day: 1},
			End:   civil.Date{Year: y, Month: time.December, Day: 31},
		}
	},
}

// WindowFor returns the window a rank type covers on today. It returns false
// for RankTotal, which is not windowed.
func WindowFor(rankType domain.RankType, today civil.Date) (Window, bool) {
	resolve, ok := windowResolvers[rankType]
	if !ok {
		return Window{}, false
	}
	return resolve(today), true
}

// WeekStart returns the Monday on or before d.
func WeekStart(d civil.Date) civil.Date {
	offset := (int(d.In(time.UTC).Weekday()) + 6) % 7
	return d.AddDays(-offset)
}
