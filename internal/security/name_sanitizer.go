// Package security はアプリケーションのセキュリティ機能を提供する。
//
// NameSanitizerService はブックマークのメモ（name）をサニタイズし、
// 保存データに一切のHTMLが混入しないことを保証する。
// bluemondayのStrictPolicy（全タグ除去）を使用する。
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// maxNameLength はブックマークのメモの最大文字数（バイト長ではなくルーン数）。
const maxNameLength = 100

// NameSanitizerService はブックマーク名のサニタイズ機能のインターフェースを定義する。
type NameSanitizerService interface {
	// Sanitize は入力からHTMLタグをすべて除去し、前後の空白を取り除き、
	// 最大長に切り詰めたプレーンテキストを返す。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// nameSanitizer はNameSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type nameSanitizer struct {
	policy *bluemonday.Policy
}

// NewNameSanitizer はNameSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicyはタグも属性も一切許可せず、テキストのみを通過させる。
func NewNameSanitizer() *nameSanitizer {
	return &nameSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力からHTMLタグを除去したプレーンテキストを返す。
func (s *nameSanitizer) Sanitize(raw string) string {
	cleaned := strings.TrimSpace(s.policy.Sanitize(raw))

	runes := []rune(cleaned)
	if len(runes) > maxNameLength {
		return string(runes[:maxNameLength])
	}
	return cleaned
}
