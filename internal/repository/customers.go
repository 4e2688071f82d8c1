package repository

import (
	"context"
)

// 以下写入方法只在导入开发数据时使用

func (r *Repository) CreateCustomerType(ctx context.Context, name string) (string, error) {
	query := `
		INSERT INTO customer_types (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	var id string
	if err := r.dbpool.QueryRowContext(ctx, query, name).Scan(&id); err != nil {
		return "", err
	}

	return id, nil
}

func (r *Repository) CreateDogCategory(ctx context.Context, name string) (string, error) {
	query := `
		INSERT INTO dog_categories (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	var id string
	if err := r.dbpool.QueryRowContext(ctx, query, name).Scan(&id); err != nil {
		return "", err
	}

	return id, nil
}

type Customer struct {
	ID             string
	Name           string
	Phone          string
	Email          string
	CustomerTypeID *string
}

func (r *Repository) CreateCustomer(ctx context.Context, c *Customer) error {
	query := `
		INSERT INTO customers (name, phone, email, customer_type_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	return r.dbpool.QueryRowContext(ctx, query, c.Name, c.Phone, c.Email, c.CustomerTypeID).Scan(&c.ID)
}

type Dog struct {
	ID          string
	CustomerID  string
	Name        string
	Breed       string
	CategoryIDs []string
}

// CreateDog 在一个事务中插入狗狗及其分类
func (r *Repository) CreateDog(ctx context.Context, d *Dog) error {
	ctx, cancel := r.txContext(ctx)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO dogs (customer_id, name, breed) VALUES ($1, $2, $3) RETURNING id`
	if err := tx.QueryRowContext(ctx, query, d.CustomerID, d.Name, d.Breed).Scan(&d.ID); err != nil {
		return err
	}

	for _, categoryID := range d.CategoryIDs {
		if _, err := tx.ExecContext(ctx, `INSERT INTO dog_category_links (dog_id, category_id) VALUES ($1, $2)`, d.ID, categoryID); err != nil {
			return err
		}
	}

	return tx.Commit()
}
