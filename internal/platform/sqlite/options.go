package sqlite

import (
	"context"
	"database/sql"

	"github.com/hirosato/giftaid-review/internal/domain/errors"
	"github.com/hirosato/giftaid-review/internal/domain/giftaid"
)

// ProductOptions lists the products that can be used as a filter
func (s *Store) ProductOptions(ctx context.Context) ([]giftaid.Option, error) {
	return s.options(ctx, `SELECT id, name FROM products ORDER BY name, id`)
}

// CompanyOptions lists the companies that can be used as a filter
func (s *Store) CompanyOptions(ctx context.Context) ([]giftaid.Option, error) {
	return s.options(ctx, `SELECT id, name FROM companies ORDER BY name, id`)
}

// StatusOptions returns the gift aid status picklist
func (s *Store) StatusOptions(ctx context.Context) ([]giftaid.Option, error) {
	return giftaid.StatusOptions(), nil
}

func (s *Store) options(ctx context.Context, query string) ([]giftaid.Option, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.NewTransportError("failed to load options", err)
	}
	defer rows.Close()

	options := []giftaid.Option{}
	for rows.Next() {
		var option giftaid.Option
		if err := rows.Scan(&option.Value, &option.Label); err != nil {
			return nil, errors.NewTransportError("failed to read option", err)
		}
		options = append(options, option)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewTransportError("failed to read options", err)
	}
	return options, nil
}

// SaveProducts inserts or renames products
func (s *Store) SaveProducts(ctx context.Context, products []giftaid.Option) error {
	return s.saveOptions(ctx, `INSERT INTO products (id, name) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name`, products)
}

// SaveCompanies inserts or renames companies
func (s *Store) SaveCompanies(ctx context.Context, companies []giftaid.Option) error {
	return s.saveOptions(ctx, `INSERT INTO companies (id, name) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name`, companies)
}

func (s *Store) saveOptions(ctx context.Context, statement string, options []giftaid.Option) error {
	err := s.withTx(func(tx *sql.Tx) error {
		for _, option := range options {
			if _, err := tx.ExecContext(ctx, statement, option.Value, option.Label); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.NewTransportError("failed to save options", err)
	}
	return nil
}
