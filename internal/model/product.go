package model

import "time"

// DefaultProductIcon は商品アイコンが指定されなかった場合の値。
const DefaultProductIcon = "fas fa-robot"

// Product はランディングページに掲載するボット商品を表す。
// Priceは表示用の文字列で、金額計算は行わない。
// Orderの昇順が公開ページでの表示順になる（一意性は要求しない）。
// OrderはPostgreSQLのINTEGER列に保存するため32bit符号付き整数の範囲に制限する。
type Product struct {
	ID          string
	Name        string   `validate:"required,max=255"`
	Description string   `validate:"required"`
	Price       string   `validate:"required,max=100"`
	Features    []string `validate:"dive,required"`
	IsActive    bool
	IsPopular   bool
	Icon        string `validate:"required,max=50"`
	Order       int      `validate:"min=-2147483648,max=2147483647"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductCounts は管理画面のダッシュボードに表示する商品数。
type ProductCounts struct {
	Total  int
	Active int
}
