// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextSanitizer はユーザーが入力した名前、タイトル、説明文からマークアップを取り除く。
// OutboundGuard はメール送信APIなど外部への接続に使うHTTPクライアントを生成する。
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizer はプレーンテキストのサニタイズ機能のインターフェース。
// ワークスペース、プロジェクト、課題の保存前に使用する。
type TextSanitizer interface {
	// Sanitize は全てのHTMLタグを除去し、前後の空白を取り除いた文字列を返す。
	Sanitize(s string) string
	// SanitizePtr はnilをそのまま返す以外はSanitizeと同じ。
	SanitizePtr(s *string) *string
}

// textSanitizer はTextSanitizerの実装。
// bluemondayのStrictPolicyはスレッドセーフに共有できる。
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はbluemondayのStrictPolicyを使うTextSanitizerを生成する。
func NewTextSanitizer() TextSanitizer {
	return &textSanitizer{policy: bluemonday.StrictPolicy()}
}

// Sanitize はタグを除去する。
// StrictPolicyはテキスト中の&や<をエスケープするため、保存用に元の文字へ戻す。
// 応答はJSONで返すので、HTMLとしてのエスケープは表示側の責務とする。
func (s *textSanitizer) Sanitize(raw string) string {
	if raw == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(raw)))
}

func (s *textSanitizer) SanitizePtr(raw *string) *string {
	if raw == nil {
		return nil
	}
	v := s.Sanitize(*raw)
	return &v
}

// Nop は入力をそのまま返すTextSanitizer。テスト用。
type Nop struct{}

func (Nop) Sanitize(s string) string      { return s }
func (Nop) SanitizePtr(s *string) *string { return s }
