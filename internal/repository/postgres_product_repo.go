package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/botcatalog/internal/model"
)

// PostgresProductRepo はPostgreSQLを使用した商品リポジトリ。
type PostgresProductRepo struct {
	db *sql.DB
}

// NewPostgresProductRepo はPostgresProductRepoを生成する。
func NewPostgresProductRepo(db *sql.DB) *PostgresProductRepo {
	return &PostgresProductRepo{db: db}
}

const productColumns = `id, name, description, price, features, is_active, is_popular,
	icon, "order", created_at, updated_at`

// rowScanner は*sql.Rowと*sql.Rowsの共通インターフェース。
type rowScanner interface {
	Scan(dest ...any) error
}

// ListActive は公開中の商品を表示順に取得する。
func (r *PostgresProductRepo) ListActive(ctx context.Context) ([]*model.Product, error) {
	return r.list(ctx,
		`SELECT `+productColumns+` FROM products
		 WHERE is_active = true
		 ORDER BY "order" ASC, created_at ASC`,
	)
}

// ListAll は非公開を含む全商品を表示順に取得する。
func (r *PostgresProductRepo) ListAll(ctx context.Context) ([]*model.Product, error) {
	return r.list(ctx,
		`SELECT `+productColumns+` FROM products
		 ORDER BY "order" ASC, created_at ASC`,
	)
}

func (r *PostgresProductRepo) list(ctx context.Context, query string) ([]*model.Product, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := make([]*model.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}
	return products, nil
}

// FindByID は指定IDの商品を取得する。見つからない場合はnilを返す。
func (r *PostgresProductRepo) FindByID(ctx context.Context, id string) (*model.Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`,
		id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return p, nil
}

// Create は商品を作成する。ID・作成日時・更新日時は呼び出し側で設定する。
func (r *PostgresProductRepo) Create(ctx context.Context, p *model.Product) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO products (id, name, description, price, features, is_active, is_popular,
		                       icon, "order", created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.ID, p.Name, p.Description, p.Price, pq.Array(featuresOrEmpty(p.Features)),
		p.IsActive, p.IsPopular, p.Icon, p.Order, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update は商品の全カラムを上書きする。対象が存在しない場合はErrNotFoundを返す。
func (r *PostgresProductRepo) Update(ctx context.Context, p *model.Product) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE products
		 SET name = $2, description = $3, price = $4, features = $5,
		     is_active = $6, is_popular = $7, icon = $8, "order" = $9, updated_at = $10
		 WHERE id = $1`,
		p.ID, p.Name, p.Description, p.Price, pq.Array(featuresOrEmpty(p.Features)),
		p.IsActive, p.IsPopular, p.Icon, p.Order, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return requireAffected(result)
}

// Delete は商品を削除する。対象が存在しない場合はErrNotFoundを返す。
func (r *PostgresProductRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM products WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return requireAffected(result)
}

// Counts は全商品数と公開中の商品数を返す。
func (r *PostgresProductRepo) Counts(ctx context.Context) (*model.ProductCounts, error) {
	counts := &model.ProductCounts{}
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*), count(*) FILTER (WHERE is_active) FROM products`,
	).Scan(&counts.Total, &counts.Active)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	return counts, nil
}

func scanProduct(s rowScanner) (*model.Product, error) {
	p := &model.Product{}
	var features pq.StringArray
	if err := s.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &features,
		&p.IsActive, &p.IsPopular, &p.Icon, &p.Order,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	p.Features = featuresOrEmpty(features)
	return p, nil
}

// featuresOrEmpty はnilスライスを空スライスに変換する。
// text[]のNULLとJSONのnullを避けるため、常に空配列として扱う。
func featuresOrEmpty(features []string) []string {
	if features == nil {
		return []string{}
	}
	return features
}

// requireAffected は影響行数が0の場合にErrNotFoundを返す。
func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// compile-time interface check
var _ ProductRepository = (*PostgresProductRepo)(nil)
