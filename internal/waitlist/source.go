package waitlist

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/salon-manager/backend/internal/domain"
)

// Source 提供某一天仍在等待的条目
type Source interface {
	ListWaitlistEntries(ctx context.Context, date time.Time, scope domain.WaitlistScope) ([]*domain.WaitlistEntry, error)
}

// EmptySource 用于没有开启候补功能的门店，永远返回空列表
type EmptySource struct{}

func (EmptySource) ListWaitlistEntries(context.Context, time.Time, domain.WaitlistScope) ([]*domain.WaitlistEntry, error) {
	return []*domain.WaitlistEntry{}, nil
}
