// Package contact はお問い合わせメッセージのドメインロジックを提供する。
package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/botcatalog/internal/model"
	"github.com/hitoshi/botcatalog/internal/repository"
	"github.com/hitoshi/botcatalog/internal/security"
)

// MetricsRecorder はお問い合わせの受付と既読化の記録に使用するインターフェース。
type MetricsRecorder interface {
	RecordContactMessage()
	RecordMessageRead()
}

// CreateInput はお問い合わせフォームの入力。
type CreateInput struct {
	Name    string
	Email   string
	Message string
}

// Service はお問い合わせメッセージのサービス層。
// メッセージは削除せず、既読フラグはfalse→trueにのみ変化する。
type Service struct {
	repo      repository.ContactMessageRepository
	sanitizer *security.TextSanitizer
	metrics   MetricsRecorder
	now       func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。metricsはnilでもよい。
func NewService(repo repository.ContactMessageRepository, sanitizer *security.TextSanitizer, metrics MetricsRecorder) *Service {
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

// Create はお問い合わせを未読として保存する。
func (s *Service) Create(ctx context.Context, in CreateInput) (*model.ContactMessage, error) {
	msg := &model.ContactMessage{
		ID:        uuid.New().String(),
		Name:      s.sanitizer.Clean(in.Name),
		Email:     strings.TrimSpace(in.Email),
		Message:   s.sanitizer.Clean(in.Message),
		IsRead:    false,
		CreatedAt: s.now(),
	}

	if err := model.Validate(msg); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("お問い合わせの保存に失敗しました: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordContactMessage()
	}
	slog.Info("contact message received",
		slog.String("message_id", msg.ID),
		slog.Int("length", len(msg.Message)),
	)
	return msg, nil
}

// List はフィルタに一致するメッセージを新しい順に返す。
func (s *Service) List(ctx context.Context, filter model.MessageFilter) ([]*model.ContactMessage, error) {
	messages, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("お問い合わせ一覧の取得に失敗しました: %w", err)
	}
	return messages, nil
}

// MarkRead はメッセージを既読にする。既読済みでもエラーにしない。
// 存在しない場合はMESSAGE_NOT_FOUNDを返す。
func (s *Service) MarkRead(ctx context.Context, id string) (*model.ContactMessage, error) {
	msg, err := s.repo.MarkRead(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, model.NewMessageNotFoundError(id)
		}
		return nil, fmt.Errorf("既読への更新に失敗しました: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordMessageRead()
	}
	slog.Info("contact message marked as read", slog.String("message_id", id))
	return msg, nil
}

// Counts は全メッセージ数と未読数を返す。
func (s *Service) Counts(ctx context.Context) (*model.MessageCounts, error) {
	counts, err := s.repo.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("お問い合わせ件数の取得に失敗しました: %w", err)
	}
	return counts, nil
}
