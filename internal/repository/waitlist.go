package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sysu-ecnc-dev/salon-manager/backend/internal/domain"
)

// ListWaitlistEntries 返回在 date 当天仍在等待且服务范围匹配的条目
func (r *Repository) ListWaitlistEntries(ctx context.Context, date time.Time, scope domain.WaitlistScope) ([]*domain.WaitlistEntry, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	day := domain.DateKey(date)

	query := `
		SELECT
			e.id,
			e.customer_id,
			c.name,
			c.phone,
			c.email,
			c.customer_type_id,
			COALESCE(ct.name, ''),
			e.dog_id,
			d.name,
			d.breed,
			e.scope,
			e.notes,
			e.created_at,
			s.start_date,
			s.end_date
		FROM waitlist_entries e
		JOIN customers c ON e.customer_id = c.id
		JOIN dogs d ON e.dog_id = d.id
		LEFT JOIN customer_types ct ON c.customer_type_id = ct.id
		LEFT JOIN waitlist_date_spans s ON s.entry_id = e.id
		WHERE EXISTS (
			SELECT 1 FROM waitlist_date_spans ws
			WHERE ws.entry_id = e.id AND ws.start_date <= $1::date AND (ws.end_date IS NULL OR ws.end_date >= $1::date)
		)
		AND ($2 = '' OR $2 = 'both' OR e.scope = 'both' OR e.scope = $2)
		ORDER BY e.created_at, e.id, s.start_date
	`

	rows, err := r.dbpool.QueryContext(ctx, query, day, string(scope))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*domain.WaitlistEntry, 0)
	entriesMap := make(map[string]*domain.WaitlistEntry)
	dogIDs := make([]string, 0)

	for rows.Next() {
		var row struct {
			Entry     domain.WaitlistEntry
			StartDate sql.NullTime
			EndDate   sql.NullTime
		}
		e := &row.Entry

		dst := []any{
			&e.ID,
			&e.CustomerID,
			&e.CustomerName,
			&e.CustomerPhone,
			&e.CustomerEmail,
			&e.CustomerTypeID,
			&e.CustomerTypeName,
			&e.DogID,
			&e.DogName,
			&e.Breed,
			&e.Scope,
			&e.Notes,
			&e.CreatedAt,
			&row.StartDate,
			&row.EndDate,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		entry, exists := entriesMap[e.ID]
		if !exists {
			// 第一次查到这个条目
			entry = e
			entry.Categories = make([]domain.DogCategory, 0)
			entry.DateSpans = make([]domain.DateSpan, 0)
			entriesMap[e.ID] = entry
			entries = append(entries, entry)
			dogIDs = append(dogIDs, e.DogID)
		}

		if !row.StartDate.Valid {
			continue
		}
		span := domain.DateSpan{Start: row.StartDate.Time}
		if row.EndDate.Valid {
			end := row.EndDate.Time
			span.End = &end
		}
		entry.DateSpans = append(entry.DateSpans, span)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		return entries, nil
	}

	categories, err := r.getDogCategories(ctx, dogIDs)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if cs, ok := categories[e.DogID]; ok {
			e.Categories = cs
		}
	}

	return entries, nil
}

func (r *Repository) getDogCategories(ctx context.Context, dogIDs []string) (map[string][]domain.DogCategory, error) {
	query := `
		SELECT l.dog_id, dc.id, dc.name
		FROM dog_category_links l
		JOIN dog_categories dc ON l.category_id = dc.id
		WHERE l.dog_id::text = ANY($1)
		ORDER BY dc.name
	`

	rows, err := r.dbpool.QueryContext(ctx, query, dogIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make(map[string][]domain.DogCategory)
	for rows.Next() {
		var dogID string
		var c domain.DogCategory
		if err := rows.Scan(&dogID, &c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories[dogID] = append(categories[dogID], c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return categories, nil
}

func (r *Repository) DeleteWaitlistEntry(ctx context.Context, id string) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	res, err := r.dbpool.ExecContext(ctx, `DELETE FROM waitlist_entries WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// CreateWaitlistEntry 在一个事务中插入候补及其日期区间
func (r *Repository) CreateWaitlistEntry(ctx context.Context, e *domain.WaitlistEntry) error {
	ctx, cancel := r.txContext(ctx)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO waitlist_entries (customer_id, dog_id, scope, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	if err := tx.QueryRowContext(ctx, query, e.CustomerID, e.DogID, e.Scope, e.Notes).Scan(&e.ID, &e.CreatedAt); err != nil {
		return err
	}

	for _, span := range e.DateSpans {
		var end *string
		if span.End != nil {
			d := domain.DateKey(*span.End)
			end = &d
		}
		spanQuery := `INSERT INTO waitlist_date_spans (entry_id, start_date, end_date) VALUES ($1, $2::date, $3::date)`
		if _, err := tx.ExecContext(ctx, spanQuery, e.ID, domain.DateKey(span.Start), end); err != nil {
			return err
		}
	}

	return tx.Commit()
}
