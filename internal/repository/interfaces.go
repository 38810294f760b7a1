// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hitoshi/botcatalog/internal/model"
)

// ErrNotFound は更新・削除対象の行が存在しない場合に返す。
var ErrNotFound = errors.New("repository: record not found")

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// Upsert はIDをキーにユーザーを作成または更新する。
	// 既存ユーザーの場合はcreated_atを保持し、プロフィールとupdated_atを上書きする。
	Upsert(ctx context.Context, user *model.User) (*model.User, error)
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteExpired は期限切れのセッションを削除し、削除件数を返す。
	DeleteExpired(ctx context.Context) (int64, error)
}

// ProductRepository は商品データの永続化インターフェース。
// 一覧はorderの昇順、同順位はcreated_atの昇順で返す。
type ProductRepository interface {
	// ListActive は公開中の商品を取得する。
	ListActive(ctx context.Context) ([]*model.Product, error)

	// ListAll は非公開を含む全商品を取得する。
	ListAll(ctx context.Context) ([]*model.Product, error)

	// FindByID は指定IDの商品を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Product, error)

	// Create は商品を作成する。
	Create(ctx context.Context, product *model.Product) error

	// Update は商品の全カラムを上書きする。対象が存在しない場合はErrNotFoundを返す。
	Update(ctx context.Context, product *model.Product) error

	// Delete は商品を削除する。対象が存在しない場合はErrNotFoundを返す。
	Delete(ctx context.Context, id string) error

	// Counts は全商品数と公開中の商品数を返す。
	Counts(ctx context.Context) (*model.ProductCounts, error)
}

// ContactMessageRepository はお問い合わせメッセージの永続化インターフェース。
type ContactMessageRepository interface {
	// Create はメッセージを作成する。
	Create(ctx context.Context, msg *model.ContactMessage) error

	// List はフィルタに一致するメッセージを新しい順に取得する。
	List(ctx context.Context, filter model.MessageFilter) ([]*model.ContactMessage, error)

	// MarkRead はメッセージを既読にして更新後の値を返す。
	// 対象が存在しない場合はErrNotFoundを返す。既読済みでも成功する。
	MarkRead(ctx context.Context, id string) (*model.ContactMessage, error)

	// Counts は全メッセージ数と未読数を返す。
	Counts(ctx context.Context) (*model.MessageCounts, error)
}

// nullStringValue はsql.NullStringから文字列を取得する。NULLの場合は空文字列を返す。
func nullStringValue(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// nullString は空文字列をNULLとして扱うsql.NullStringを返す。
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
