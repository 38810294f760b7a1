package model

import "time"

// ContactMessage はお問い合わせフォームから送信されたメッセージを表す。
// IsReadはfalse→trueの一方向にのみ遷移し、メッセージは削除しない。
type ContactMessage struct {
	ID        string
	Name      string `validate:"required,max=255"`
	Email     string `validate:"required,email,max=255"`
	Message   string `validate:"required"`
	IsRead    bool
	CreatedAt time.Time
}

// MessageFilter はメッセージ一覧の絞り込み条件を表す。
type MessageFilter string

const (
	// MessageFilterAll は全件を対象とする。
	MessageFilterAll MessageFilter = "all"
	// MessageFilterUnread は未読のみを対象とする。
	MessageFilterUnread MessageFilter = "unread"
	// MessageFilterRead は既読のみを対象とする。
	MessageFilterRead MessageFilter = "read"
)

// ParseMessageFilter は文字列をMessageFilterに変換する。空文字列はallとして扱う。
func ParseMessageFilter(s string) (MessageFilter, error) {
	switch MessageFilter(s) {
	case "", MessageFilterAll:
		return MessageFilterAll, nil
	case MessageFilterUnread:
		return MessageFilterUnread, nil
	case MessageFilterRead:
		return MessageFilterRead, nil
	default:
		return "", NewInvalidFilterError(s)
	}
}

// MessageCounts は管理画面のダッシュボードに表示するメッセージ数。
type MessageCounts struct {
	Total  int
	Unread int
}
