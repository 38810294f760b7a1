package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/botcatalog/internal/model"
)

// PostgresContactMessageRepo はPostgreSQLを使用したお問い合わせメッセージリポジトリ。
type PostgresContactMessageRepo struct {
	db *sql.DB
}

// NewPostgresContactMessageRepo はPostgresContactMessageRepoを生成する。
func NewPostgresContactMessageRepo(db *sql.DB) *PostgresContactMessageRepo {
	return &PostgresContactMessageRepo{db: db}
}

const contactColumns = `id, name, email, message, is_read, created_at`

// Create はメッセージを作成する。
func (r *PostgresContactMessageRepo) Create(ctx context.Context, msg *model.ContactMessage) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO contact_messages (id, name, email, message, is_read, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		msg.ID, msg.Name, msg.Email, msg.Message, msg.IsRead, msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create contact message: %w", err)
	}
	return nil
}

// List はフィルタに一致するメッセージを新しい順に取得する。
func (r *PostgresContactMessageRepo) List(ctx context.Context, filter model.MessageFilter) ([]*model.ContactMessage, error) {
	query := `SELECT ` + contactColumns + ` FROM contact_messages`
	switch filter {
	case model.MessageFilterUnread:
		query += ` WHERE is_read = false`
	case model.MessageFilterRead:
		query += ` WHERE is_read = true`
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*model.ContactMessage, 0)
	for rows.Next() {
		msg, err := scanContactMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contact messages: %w", err)
	}
	return messages, nil
}

// MarkRead はメッセージを既読にして更新後の値を返す。
// 対象が存在しない場合はErrNotFoundを返す。
func (r *PostgresContactMessageRepo) MarkRead(ctx context.Context, id string) (*model.ContactMessage, error) {
	msg, err := scanContactMessage(r.db.QueryRowContext(ctx,
		`UPDATE contact_messages SET is_read = true WHERE id = $1
		 RETURNING `+contactColumns,
		id,
	))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to mark contact message as read: %w", err)
	}
	return msg, nil
}

// Counts は全メッセージ数と未読数を返す。
func (r *PostgresContactMessageRepo) Counts(ctx context.Context) (*model.MessageCounts, error) {
	counts := &model.MessageCounts{}
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*), count(*) FILTER (WHERE NOT is_read) FROM contact_messages`,
	).Scan(&counts.Total, &counts.Unread)
	if err != nil {
		return nil, fmt.Errorf("failed to count contact messages: %w", err)
	}
	return counts, nil
}

func scanContactMessage(s rowScanner) (*model.ContactMessage, error) {
	msg := &model.ContactMessage{}
	if err := s.Scan(&msg.ID, &msg.Name, &msg.Email, &msg.Message, &msg.IsRead, &msg.CreatedAt); err != nil {
		return nil, err
	}
	return msg, nil
}

// compile-time interface check
var _ ContactMessageRepository = (*PostgresContactMessageRepo)(nil)
