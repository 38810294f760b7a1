package handler

import (
	"context"

	"github.com/hitoshi/botcatalog/internal/model"
)

// ProductCounter は商品数の集計に必要なインターフェース。
type ProductCounter interface {
	Counts(ctx context.Context) (*model.ProductCounts, error)
}

// MessageCounter はお問い合わせ件数の集計に必要なインターフェース。
type MessageCounter interface {
	Counts(ctx context.Context) (*model.MessageCounts, error)
}

// StatsServiceAdapter は product.Service と contact.Service の集計を StatsServiceInterface に適合させるアダプタ。
type StatsServiceAdapter struct {
	products ProductCounter
	messages MessageCounter
}

// NewStatsServiceAdapter はStatsServiceAdapterを生成する。
func NewStatsServiceAdapter(products ProductCounter, messages MessageCounter) *StatsServiceAdapter {
	return &StatsServiceAdapter{products: products, messages: messages}
}

// Stats は商品数とメッセージ数をhandlerレスポンス型で返す。
func (a *StatsServiceAdapter) Stats(ctx context.Context) (*statsResponse, error) {
	pc, err := a.products.Counts(ctx)
	if err != nil {
		return nil, err
	}
	mc, err := a.messages.Counts(ctx)
	if err != nil {
		return nil, err
	}
	return &statsResponse{
		TotalProducts:  pc.Total,
		ActiveProducts: pc.Active,
		TotalMessages:  mc.Total,
		UnreadMessages: mc.Unread,
	}, nil
}

// --- compile-time interface checks ---

var _ StatsServiceInterface = (*StatsServiceAdapter)(nil)
