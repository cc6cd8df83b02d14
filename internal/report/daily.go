package report

import (
	"sort"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/tillbook/internal/ledger"
	"github.com/roach88/tillbook/internal/pos"
)

const dayLayout = "2006-01-02"

// DayCount is the number of units of an article sold on one day.
type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// DailyArticleSales counts units of one article sold per day between From
// and To inclusive. Days with sales of other articles only appear with a
// zero count, so the series shows trading days.
type DailyArticleSales struct {
	ledger.NopVisitor

	Article  string
	From, To time.Time

	Days []DayCount

	counts map[string]int
}

func (v *DailyArticleSales) Begin() {
	v.Days = nil
	v.counts = make(map[string]int)
}

func (v *DailyArticleSales) Sale(s *pos.Sale) {
	day := s.Timestamp.Format(dayLayout)
	n := 0
	if s.Article != nil && norm.NFC.String(s.Article.Name) == norm.NFC.String(v.Article) {
		n = s.Quantity
	}
	v.counts[day] += n
}

func (v *DailyArticleSales) End() {
	from, to := v.From.Format(dayLayout), v.To.Format(dayLayout)
	for day, n := range v.counts {
		if (v.From.IsZero() || day >= from) && (v.To.IsZero() || day <= to) {
			v.Days = append(v.Days, DayCount{Day: day, Count: n})
		}
	}
	sort.Slice(v.Days, func(i, j int) bool { return v.Days[i].Day < v.Days[j].Day })
}
