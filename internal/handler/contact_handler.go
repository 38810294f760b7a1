package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/botcatalog/internal/contact"
	"github.com/hitoshi/botcatalog/internal/model"
)

// ContactServiceInterface はお問い合わせハンドラーが必要とするサービスインターフェース。
type ContactServiceInterface interface {
	Create(ctx context.Context, in contact.CreateInput) (*model.ContactMessage, error)
	List(ctx context.Context, filter model.MessageFilter) ([]*model.ContactMessage, error)
	MarkRead(ctx context.Context, id string) (*model.ContactMessage, error)
}

// ContactHandler はお問い合わせフォームと受信箱のHTTPハンドラー。
type ContactHandler struct {
	service ContactServiceInterface
}

// NewContactHandler はContactHandlerを生成する。
func NewContactHandler(service ContactServiceInterface) *ContactHandler {
	return &ContactHandler{service: service}
}

// contactRequest はお問い合わせ送信リクエストのボディ。
type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// messageResponse はお問い合わせメッセージのAPIレスポンス。
type messageResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// Submit はお問い合わせを受け付ける。
// POST /api/contact
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	msg, err := h.service.Create(r.Context(), contact.CreateInput{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMessageResponse(msg))
}

// ListMessages はお問い合わせ一覧を新しい順に返す。
// GET /api/admin/messages?status=all|unread|read
func (h *ContactHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	filter, err := model.ParseMessageFilter(r.URL.Query().Get("status"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	messages, err := h.service.List(r.Context(), filter)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]messageResponse, len(messages))
	for i, msg := range messages {
		resp[i] = toMessageResponse(msg)
	}
	writeJSON(w, http.StatusOK, resp)
}

// MarkRead はメッセージを既読にする。
// PUT /api/admin/messages/{id}/read
func (h *ContactHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	msg, err := h.service.MarkRead(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMessageResponse(msg))
}

func toMessageResponse(msg *model.ContactMessage) messageResponse {
	return messageResponse{
		ID:        msg.ID,
		Name:      msg.Name,
		Email:     msg.Email,
		Message:   msg.Message,
		IsRead:    msg.IsRead,
		CreatedAt: msg.CreatedAt,
	}
}
