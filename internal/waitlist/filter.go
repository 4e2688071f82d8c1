package waitlist

import (
	"slices"
	"strings"

	"github.com/mozillazg/go-pinyin"
	"github.com/sysu-ecnc-dev/salon-manager/backend/internal/domain"
)

type Filter struct {
	Search        string
	CustomerTypes []string
	Categories    []string
}

// Matches 三个条件必须同时满足；没有选择的条件视为不限制
func (f *Filter) Matches(e *domain.WaitlistEntry) bool {
	return f.matchesSearch(e) && f.matchesCustomerType(e) && f.matchesCategory(e)
}

func (f *Filter) matchesSearch(e *domain.WaitlistEntry) bool {
	term := strings.ToLower(strings.TrimSpace(f.Search))
	if term == "" {
		return true
	}

	fields := []string{e.DogName, e.CustomerName, e.CustomerPhone, e.CustomerEmail, e.Breed, e.Notes}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}

	// 中文名字还可以用拼音全拼或者首字母搜索
	for _, name := range []string{e.DogName, e.CustomerName} {
		if matchesPinyin(name, term) {
			return true
		}
	}

	return false
}

func (f *Filter) matchesCustomerType(e *domain.WaitlistEntry) bool {
	if len(f.CustomerTypes) == 0 {
		return true
	}
	return e.CustomerTypeID != nil && slices.Contains(f.CustomerTypes, *e.CustomerTypeID)
}

func (f *Filter) matchesCategory(e *domain.WaitlistEntry) bool {
	if len(f.Categories) == 0 {
		return true
	}
	for _, c := range e.Categories {
		if slices.Contains(f.Categories, c.ID) {
			return true
		}
	}
	return false
}

// matchesPinyin 全拼必须从某个音节的开头匹配，例如“李芳”可以用 lifang、fang、lif 搜到，但 ang 不行；
// 首字母可以任意连续匹配
func matchesPinyin(name, term string) bool {
	syllables := romanize(name)
	if len(syllables) == 0 {
		return false
	}

	var initials strings.Builder
	for _, syl := range syllables {
		initials.WriteByte(syl[0])
	}
	if strings.Contains(initials.String(), term) {
		return true
	}

	for i := range syllables {
		if strings.HasPrefix(strings.Join(syllables[i:], ""), term) {
			return true
		}
	}
	return false
}

// romanize 返回不带声调的音节，非中文字符会被忽略
func romanize(s string) []string {
	syllables := pinyin.LazyConvert(s, nil)

	out := make([]string, 0, len(syllables))
	for _, syl := range syllables {
		if syl != "" {
			out = append(out, syl)
		}
	}
	return out
}
