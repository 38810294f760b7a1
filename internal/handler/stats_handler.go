package handler

import (
	"context"
	"net/http"
)

// StatsServiceInterface はダッシュボード集計ハンドラーが必要とするサービスインターフェース。
type StatsServiceInterface interface {
	Stats(ctx context.Context) (*statsResponse, error)
}

// StatsHandler は管理画面ダッシュボードのHTTPハンドラー。
type StatsHandler struct {
	service StatsServiceInterface
}

// NewStatsHandler はStatsHandlerを生成する。
func NewStatsHandler(service StatsServiceInterface) *StatsHandler {
	return &StatsHandler{service: service}
}

// statsResponse はダッシュボードのカウンター。
type statsResponse struct {
	TotalProducts  int `json:"totalProducts"`
	ActiveProducts int `json:"activeProducts"`
	TotalMessages  int `json:"totalMessages"`
	UnreadMessages int `json:"unreadMessages"`
}

// Get は商品数とメッセージ数を返す。
// GET /api/admin/stats
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
