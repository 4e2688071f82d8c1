package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/sysu-ecnc-dev/salon-manager/backend/internal/domain"
)

func (r *Repository) GetStationDailyConfigs(ctx context.Context) ([]domain.StationDailyConfig, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		SELECT weekday, visible_station_ids, station_order
		FROM station_daily_configs
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// database/sql 不能直接扫描数组，需要借助 pgtype
	m := pgtype.NewMap()

	configs := make([]domain.StationDailyConfig, 0, len(domain.Weekdays))
	for rows.Next() {
		var c domain.StationDailyConfig
		dst := []any{&c.Weekday, m.SQLScanner(&c.VisibleStationIDs), m.SQLScanner(&c.StationOrder)}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		configs = append(configs, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return configs, nil
}

// SaveStationDailyConfigs 在一个事务中按星期 upsert 全部配置，任何一天失败都会整体回滚
func (r *Repository) SaveStationDailyConfigs(ctx context.Context, configs []domain.StationDailyConfig) error {
	ctx, cancel := r.txContext(ctx)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO station_daily_configs (weekday, visible_station_ids, station_order)
		VALUES ($1, $2, $3)
		ON CONFLICT (weekday) DO UPDATE
		SET
			visible_station_ids = EXCLUDED.visible_station_ids,
			station_order = EXCLUDED.station_order,
			updated_at = NOW()
	`
	for _, c := range configs {
		if _, err := tx.ExecContext(ctx, query, string(c.Weekday), c.VisibleStationIDs, c.StationOrder); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}
