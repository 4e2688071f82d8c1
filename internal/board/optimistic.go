package board

import (
	"context"
	"errors"
)

type TxState string

const (
	StateIdle       TxState = "idle"
	StateProposed   TxState = "proposed"
	StateCommitted  TxState = "committed"
	StateRolledBack TxState = "rolled_back"
)

// Transact 先保存快照，再做乐观修改，最后提交；提交失败时把快照原样恢复
type Transact[T any] struct {
	Capture func(ctx context.Context) (T, error)
	Apply   func(ctx context.Context) error
	Commit  func(ctx context.Context) error
	Restore func(ctx context.Context, snapshot T) error
}

func (tx Transact[T]) Run(ctx context.Context) (TxState, error) {
	snapshot, err := tx.Capture(ctx)
	if err != nil {
		return StateIdle, err
	}

	if err := tx.Apply(ctx); err != nil {
		return StateRolledBack, tx.rollback(ctx, snapshot, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return StateRolledBack, tx.rollback(ctx, snapshot, err)
	}

	return StateCommitted, nil
}

func (tx Transact[T]) rollback(ctx context.Context, snapshot T, cause error) error {
	// 请求被取消时也要把缓存恢复
	if err := tx.Restore(context.WithoutCancel(ctx), snapshot); err != nil {
		return errors.Join(cause, err)
	}
	return cause
}
