package waitlist

import "github.com/sysu-ecnc-dev/salon-manager/backend/internal/domain"

const (
	UnclassifiedKey   = "unclassified"
	UnclassifiedLabel = "未分类"
)

type Bucket struct {
	Key     string                  `json:"key"`
	Label   string                  `json:"label"`
	Entries []*domain.WaitlistEntry `json:"entries"`
}

// grouper 按照第一次出现的顺序保存分组，未分类的分组始终排在最后
type grouper struct {
	order        []string
	buckets      map[string]*Bucket
	unclassified *Bucket
}

func newGrouper() *grouper {
	return &grouper{buckets: make(map[string]*Bucket)}
}

func (g *grouper) add(key, label string, e *domain.WaitlistEntry) {
	b, ok := g.buckets[key]
	if !ok {
		b = &Bucket{Key: key, Label: label, Entries: []*domain.WaitlistEntry{}}
		g.buckets[key] = b
		g.order = append(g.order, key)
	}
	b.Entries = append(b.Entries, e)
}

func (g *grouper) addUnclassified(e *domain.WaitlistEntry) {
	if g.unclassified == nil {
		g.unclassified = &Bucket{Key: UnclassifiedKey, Label: UnclassifiedLabel, Entries: []*domain.WaitlistEntry{}}
	}
	g.unclassified.Entries = append(g.unclassified.Entries, e)
}

func (g *grouper) result() []Bucket {
	out := make([]Bucket, 0, len(g.order)+1)
	for _, key := range g.order {
		out = append(out, *g.buckets[key])
	}
	if g.unclassified != nil {
		out = append(out, *g.unclassified)
	}
	return out
}

// GroupByCustomerType 没有客户类型的条目全部放进一个未分类分组
func GroupByCustomerType(entries []*domain.WaitlistEntry) []Bucket {
	g := newGrouper()
	for _, e := range entries {
		if e.CustomerTypeID == nil {
			g.addUnclassified(e)
			continue
		}
		label := e.CustomerTypeName
		if label == "" {
			label = *e.CustomerTypeID
		}
		g.add(*e.CustomerTypeID, label, e)
	}
	return g.result()
}

// GroupByCategory 有 N 个类别的条目会出现在 N 个分组中
func GroupByCategory(entries []*domain.WaitlistEntry) []Bucket {
	g := newGrouper()
	for _, e := range entries {
		if len(e.Categories) == 0 {
			g.addUnclassified(e)
			continue
		}
		for _, c := range e.Categories {
			g.add(c.ID, c.Name, e)
		}
	}
	return g.result()
}
