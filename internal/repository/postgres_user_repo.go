package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/botcatalog/internal/model"
)

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

const userColumns = `id, email, first_name, last_name, profile_image_url, created_at, updated_at`

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}

// Upsert はIDをキーにユーザーを作成または更新する。
// 空のプロフィール項目はNULLとして保存する。
func (r *PostgresUserRepo) Upsert(ctx context.Context, user *model.User) (*model.User, error) {
	saved, err := scanUser(r.db.QueryRowContext(ctx,
		`INSERT INTO users (id, email, first_name, last_name, profile_image_url, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, now(), now())
		 ON CONFLICT (id) DO UPDATE SET
		     email = EXCLUDED.email,
		     first_name = EXCLUDED.first_name,
		     last_name = EXCLUDED.last_name,
		     profile_image_url = EXCLUDED.profile_image_url,
		     updated_at = now()
		 RETURNING `+userColumns,
		user.ID,
		nullString(user.Email),
		nullString(user.FirstName),
		nullString(user.LastName),
		nullString(user.ProfileImageURL),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}
	return saved, nil
}

func scanUser(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	var email, firstName, lastName, profileImageURL sql.NullString
	if err := row.Scan(
		&user.ID, &email, &firstName, &lastName, &profileImageURL,
		&user.CreatedAt, &user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	user.Email = nullStringValue(email)
	user.FirstName = nullStringValue(firstName)
	user.LastName = nullStringValue(lastName)
	user.ProfileImageURL = nullStringValue(profileImageURL)
	return user, nil
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
