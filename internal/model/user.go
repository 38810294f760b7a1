// Package model はドメインモデルを定義する。
package model

import "time"

// User は管理画面にログインするユーザーを表す。
// IDは外部IdPのsubject。ログイン時にUPSERTされ、このシステムからは削除しない。
type User struct {
	ID              string
	Email           string
	FirstName       string
	LastName        string
	ProfileImageURL string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Session はユーザーのログインセッションを表す。
// sessionsテーブルのsessカラムにはUserIDとEmailをJSONで保存する。
type Session struct {
	ID        string
	UserID    string
	Email     string
	ExpiresAt time.Time
	CreatedAt time.Time
}
