package waitlist

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/salon-manager/backend/internal/domain"
)

type View struct {
	Date           string                  `json:"date"`
	Total          int                     `json:"total"`
	Entries        []*domain.WaitlistEntry `json:"entries"`
	ByCustomerType []Bucket                `json:"byCustomerType"`
	ByCategory     []Bucket                `json:"byCategory"`
}

type Aggregator struct {
	source Source
	loc    *time.Location
}

func NewAggregator(source Source, loc *time.Location) *Aggregator {
	if source == nil {
		source = EmptySource{}
	}
	if loc == nil {
		loc = time.Local
	}
	return &Aggregator{source: source, loc: loc}
}

// View 读取、过滤并分组，不会修改任何数据
func (a *Aggregator) View(ctx context.Context, date time.Time, scope domain.WaitlistScope, filter *Filter) (*View, error) {
	day := date.In(a.loc)

	entries, err := a.source.ListWaitlistEntries(ctx, day, scope)
	if err != nil {
		return nil, err
	}
	if filter == nil {
		filter = &Filter{}
	}

	matched := make([]*domain.WaitlistEntry, 0, len(entries))
	for _, e := range entries {
		if !e.CoversDate(day) || !e.InScope(scope) {
			continue
		}
		if filter.Matches(e) {
			matched = append(matched, e)
		}
	}

	return &View{
		Date:           domain.DateKey(day),
		Total:          len(matched),
		Entries:        matched,
		ByCustomerType: GroupByCustomerType(matched),
		ByCategory:     GroupByCategory(matched),
	}, nil
}
