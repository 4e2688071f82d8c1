package repository

import (
	"context"

	"github.com/sysu-ecnc-dev/salon-manager/backend/internal/domain"
)

func (r *Repository) GetAllStations(ctx context.Context) ([]*domain.Station, error) {
	query := `
		SELECT id, name, is_active, service_type, display_order, created_at, version
		FROM stations
		ORDER BY display_order, name
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stations := make([]*domain.Station, 0)
	for rows.Next() {
		st := &domain.Station{}
		dst := []any{&st.ID, &st.Name, &st.IsActive, &st.ServiceType, &st.DisplayOrder, &st.CreatedAt, &st.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		stations = append(stations, st)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stations, nil
}

func (r *Repository) GetStationByID(ctx context.Context, id string) (*domain.Station, error) {
	query := `
		SELECT name, is_active, service_type, display_order, created_at, version
		FROM stations WHERE id = $1
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	st := &domain.Station{
		ID: id,
	}

	dst := []any{&st.Name, &st.IsActive, &st.ServiceType, &st.DisplayOrder, &st.CreatedAt, &st.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return st, nil
}

func (r *Repository) CreateStation(ctx context.Context, st *domain.Station) error {
	query := `
		INSERT INTO stations (name, is_active, service_type, display_order)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	args := []any{st.Name, st.IsActive, st.ServiceType, st.DisplayOrder}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&st.ID, &st.CreatedAt, &st.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateStation(ctx context.Context, st *domain.Station) error {
	query := `
		UPDATE stations
		SET
			name = $1,
			is_active = $2,
			service_type = $3,
			display_order = $4,
			version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING created_at, version
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	args := []any{st.Name, st.IsActive, st.ServiceType, st.DisplayOrder, st.ID, st.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&st.CreatedAt, &st.Version); err != nil {
		return err
	}

	return nil
}
