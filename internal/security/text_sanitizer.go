// Package security はアプリケーションのセキュリティ機能を提供する。
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizer はユーザー入力からマークアップを除去してプレーンテキストにする。
// お問い合わせ本文や商品説明は画面にテキストとして表示されるため、HTMLタグは一切残さない。
type TextSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はタグをすべて除去するTextSanitizerを生成する。
func NewTextSanitizer() *TextSanitizer {
	return &TextSanitizer{policy: bluemonday.StrictPolicy()}
}

// Clean はタグを除去し、エスケープされた文字を元に戻して前後の空白を取り除く。
// bluemondayは&や<をエンティティに変換するため、保存前にアンエスケープする。
// 同一入力に対して常に同一出力を返す。
func (s *TextSanitizer) Clean(raw string) string {
	if raw == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(raw)))
}

// CleanAll はスライスの各要素にCleanを適用する。nilはnilのまま返す。
func (s *TextSanitizer) CleanAll(raw []string) []string {
	if raw == nil {
		return nil
	}
	out := make([]string, len(raw))
	for i, v := range raw {
		out[i] = s.Clean(v)
	}
	return out
}
