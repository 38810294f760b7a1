package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/botcatalog/internal/model"
	"github.com/hitoshi/botcatalog/internal/product"
)

// ProductServiceInterface は商品ハンドラーが必要とするサービスインターフェース。
type ProductServiceInterface interface {
	ListActive(ctx context.Context) ([]*model.Product, error)
	ListAll(ctx context.Context) ([]*model.Product, error)
	Get(ctx context.Context, id string) (*model.Product, error)
	Create(ctx context.Context, in product.CreateInput) (*model.Product, error)
	Update(ctx context.Context, id string, in product.UpdateInput) (*model.Product, error)
	Delete(ctx context.Context, id string) error
}

// ProductHandler は商品カタログのHTTPハンドラー。
type ProductHandler struct {
	service        ProductServiceInterface
	whatsAppNumber string
}

// NewProductHandler はProductHandlerを生成する。
// whatsAppNumberが空でなければ公開一覧の各商品に注文URLを付与する。
func NewProductHandler(service ProductServiceInterface, whatsAppNumber string) *ProductHandler {
	return &ProductHandler{
		service:        service,
		whatsAppNumber: whatsAppNumber,
	}
}

// productRequest は商品作成・更新リクエストのボディ。
// 更新では省略された項目を変更しない。
type productRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Price       *string   `json:"price"`
	Features    *[]string `json:"features"`
	IsActive    *bool     `json:"isActive"`
	IsPopular   *bool     `json:"isPopular"`
	Icon        *string   `json:"icon"`
	Order       *int      `json:"order"`
}

// productResponse は商品のAPIレスポンス。
type productResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	Features    []string  `json:"features"`
	IsActive    bool      `json:"isActive"`
	IsPopular   bool      `json:"isPopular"`
	Icon        string    `json:"icon"`
	Order       int       `json:"order"`
	OrderURL    string    `json:"orderUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ListPublic は公開中の商品一覧を返す。
// GET /api/products
func (h *ProductHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListActive(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]productResponse, len(products))
	for i, p := range products {
		resp[i] = toProductResponse(p)
		if h.whatsAppNumber != "" {
			resp[i].OrderURL = product.OrderURL(h.whatsAppNumber, p.Name)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListAll は非公開を含む全商品を返す。
// GET /api/admin/products
func (h *ProductHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListAll(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponses(products))
}

// Get は商品を1件返す。
// GET /api/admin/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(p))
}

// Create は商品を作成する。
// POST /api/admin/products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	in := product.CreateInput{
		IsActive:  req.IsActive,
		IsPopular: req.IsPopular,
		Icon:      req.Icon,
		Order:     req.Order,
	}
	if req.Name != nil {
		in.Name = *req.Name
	}
	if req.Description != nil {
		in.Description = *req.Description
	}
	if req.Price != nil {
		in.Price = *req.Price
	}
	if req.Features != nil {
		in.Features = *req.Features
	}

	p, err := h.service.Create(r.Context(), in)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductResponse(p))
}

// Update は指定された項目のみ商品を更新する。
// PUT /api/admin/products/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), product.UpdateInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Features:    req.Features,
		IsActive:    req.IsActive,
		IsPopular:   req.IsPopular,
		Icon:        req.Icon,
		Order:       req.Order,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(p))
}

// Delete は商品を削除する。
// DELETE /api/admin/products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toProductResponse(p *model.Product) productResponse {
	features := p.Features
	if features == nil {
		features = []string{}
	}
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Features:    features,
		IsActive:    p.IsActive,
		IsPopular:   p.IsPopular,
		Icon:        p.Icon,
		Order:       p.Order,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toProductResponses(products []*model.Product) []productResponse {
	resp := make([]productResponse, len(products))
	for i, p := range products {
		resp[i] = toProductResponse(p)
	}
	return resp
}
