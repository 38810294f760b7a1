// Package product は商品カタログ管理のドメインロジックを提供する。
package product

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/botcatalog/internal/model"
	"github.com/hitoshi/botcatalog/internal/repository"
	"github.com/hitoshi/botcatalog/internal/security"
)

// MetricsRecorder は商品変更の記録に使用するインターフェース。
type MetricsRecorder interface {
	RecordProductMutation(operation string)
}

// CreateInput は商品作成の入力。nilの項目はデフォルト値になる。
type CreateInput struct {
	Name        string
	Description string
	Price       string
	Features    []string
	IsActive    *bool
	IsPopular   *bool
	Icon        *string
	Order       *int
}

// UpdateInput は商品更新の入力。nilの項目は変更しない。
type UpdateInput struct {
	Name        *string
	Description *string
	Price       *string
	Features    *[]string
	IsActive    *bool
	IsPopular   *bool
	Icon        *string
	Order       *int
}

// Service は商品カタログのサービス層。
type Service struct {
	repo      repository.ProductRepository
	sanitizer *security.TextSanitizer
	metrics   MetricsRecorder
	now       func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。metricsはnilでもよい。
func NewService(repo repository.ProductRepository, sanitizer *security.TextSanitizer, metrics MetricsRecorder) *Service {
	if sanitizer == nil {
		sanitizer = security.NewTextSanitizer()
	}
	return &Service{
		repo:      repo,
		sanitizer: sanitizer,
		metrics:   metrics,
		now:       time.Now,
	}
}

// ListActive は公開中の商品を表示順に返す。
func (s *Service) ListActive(ctx context.Context) ([]*model.Product, error) {
	products, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("公開商品一覧の取得に失敗しました: %w", err)
	}
	return products, nil
}

// ListAll は非公開を含む全商品を表示順に返す。
func (s *Service) ListAll(ctx context.Context) ([]*model.Product, error) {
	products, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("商品一覧の取得に失敗しました: %w", err)
	}
	return products, nil
}

// Get は指定IDの商品を返す。存在しない場合はPRODUCT_NOT_FOUNDを返す。
func (s *Service) Get(ctx context.Context, id string) (*model.Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("商品の取得に失敗しました: %w", err)
	}
	if p == nil {
		return nil, model.NewProductNotFoundError(id)
	}
	return p, nil
}

// Create は商品を作成する。
// 公開=true、人気=false、アイコン=DefaultProductIcon、表示順=0がデフォルト。
func (s *Service) Create(ctx context.Context, in CreateInput) (*model.Product, error) {
	now := s.now()
	p := &model.Product{
		ID:          uuid.New().String(),
		Name:        s.sanitizer.Clean(in.Name),
		Description: s.sanitizer.Clean(in.Description),
		Price:       s.sanitizer.Clean(in.Price),
		Features:    s.cleanFeatures(in.Features),
		IsActive:    true,
		Icon:        model.DefaultProductIcon,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	if in.IsPopular != nil {
		p.IsPopular = *in.IsPopular
	}
	if in.Icon != nil {
		p.Icon = normalizeIcon(*in.Icon)
	}
	if in.Order != nil {
		p.Order = *in.Order
	}

	if err := model.Validate(p); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("商品の作成に失敗しました: %w", err)
	}

	s.record("create")
	slog.Info("product created",
		slog.String("product_id", p.ID),
		slog.String("name", p.Name),
	)
	return p, nil
}

// Update は指定された項目のみを変更し、updatedAtを更新する。
// 変更後の商品は作成時と同じ規則で検証する。同時更新は後勝ち。
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*model.Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		p.Name = s.sanitizer.Clean(*in.Name)
	}
	if in.Description != nil {
		p.Description = s.sanitizer.Clean(*in.Description)
	}
	if in.Price != nil {
		p.Price = s.sanitizer.Clean(*in.Price)
	}
	if in.Features != nil {
		p.Features = s.cleanFeatures(*in.Features)
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	if in.IsPopular != nil {
		p.IsPopular = *in.IsPopular
	}
	if in.Icon != nil {
		p.Icon = normalizeIcon(*in.Icon)
	}
	if in.Order != nil {
		p.Order = *in.Order
	}

	if err := model.Validate(p); err != nil {
		return nil, err
	}

	updatedAt := s.now()
	if !updatedAt.After(p.UpdatedAt) {
		updatedAt = p.UpdatedAt.Add(time.Microsecond)
	}
	p.UpdatedAt = updatedAt

	if err := s.repo.Update(ctx, p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, model.NewProductNotFoundError(id)
		}
		return nil, fmt.Errorf("商品の更新に失敗しました: %w", err)
	}

	s.record("update")
	slog.Info("product updated", slog.String("product_id", id))
	return p, nil
}

// Delete は商品を削除する。存在しない場合はPRODUCT_NOT_FOUNDを返す。
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.NewProductNotFoundError(id)
		}
		return fmt.Errorf("商品の削除に失敗しました: %w", err)
	}

	s.record("delete")
	slog.Info("product deleted", slog.String("product_id", id))
	return nil
}

// Counts は全商品数と公開中の商品数を返す。
func (s *Service) Counts(ctx context.Context) (*model.ProductCounts, error) {
	counts, err := s.repo.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("商品数の取得に失敗しました: %w", err)
	}
	return counts, nil
}

// cleanFeatures は各特徴をサニタイズする。nilは空スライスとして扱う。
// 空文字列の要素は検証エラーとするため除去しない。
func (s *Service) cleanFeatures(features []string) []string {
	if features == nil {
		return []string{}
	}
	return s.sanitizer.CleanAll(features)
}

func (s *Service) record(operation string) {
	if s.metrics != nil {
		s.metrics.RecordProductMutation(operation)
	}
}

// normalizeIcon は空白のみのアイコン指定をデフォルト値に置き換える。
func normalizeIcon(icon string) string {
	icon = strings.TrimSpace(icon)
	if icon == "" {
		return model.DefaultProductIcon
	}
	return icon
}

// OrderURL はWhatsAppで商品を注文するためのURLを返す。
// numberは国番号から始まる数字のみの電話番号。空の場合は空文字列を返す。
func OrderURL(number, productName string) string {
	if number == "" {
		return ""
	}
	text := fmt.Sprintf("Halo, saya ingin pesan %s", productName)
	// wa.meは+を空白として解釈しないため%20にする
	escaped := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	return "https://wa.me/" + number + "?text=" + escaped
}
