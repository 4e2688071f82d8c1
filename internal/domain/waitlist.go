package domain

import "time"

type WaitlistScope string

const (
	ScopeGrooming WaitlistScope = "grooming"
	ScopeDaycare  WaitlistScope = "daycare"
	ScopeBoth     WaitlistScope = "both"
)

type DogCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type DateSpan struct {
	Start time.Time  `json:"start"`
	End   *time.Time `json:"end"` // 为空表示没有截止日期
}

// Covers 判断日期 day 是否落在该区间内，只比较日期部分
func (s DateSpan) Covers(day time.Time) bool {
	d := DateKey(day)
	if d < DateKey(s.Start) {
		return false
	}
	return s.End == nil || d <= DateKey(*s.End)
}

type WaitlistEntry struct {
	ID               string        `json:"id"`
	CustomerID       string        `json:"customerID"`
	CustomerName     string        `json:"customerName"`
	CustomerPhone    string        `json:"customerPhone"`
	CustomerEmail    string        `json:"customerEmail"`
	CustomerTypeID   *string       `json:"customerTypeID"`
	CustomerTypeName string        `json:"customerTypeName"`
	DogID            string        `json:"dogID"`
	DogName          string        `json:"dogName"`
	Breed            string        `json:"breed"`
	Categories       []DogCategory `json:"categories"`
	DateSpans        []DateSpan    `json:"dateSpans"`
	Scope            WaitlistScope `json:"scope"`
	Notes            string        `json:"notes"`
	CreatedAt        time.Time     `json:"createdAt"`
}

func (e *WaitlistEntry) CoversDate(day time.Time) bool {
	for _, span := range e.DateSpans {
		if span.Covers(day) {
			return true
		}
	}
	return false
}

func (e *WaitlistEntry) InScope(scope WaitlistScope) bool {
	return scope == "" || scope == ScopeBoth || e.Scope == ScopeBoth || e.Scope == scope
}
