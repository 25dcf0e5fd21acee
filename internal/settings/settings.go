// Package settings は実行中に変更可能なサイト設定を提供する。
// configパッケージがプロセス起動時に固定される値を扱うのに対し、
// ここではリクエスト間でホットリロードされる上限値を扱う。
package settings

import "sync/atomic"

// Limits はブックマーク作成の動的な上限値を保持する。
type Limits struct {
	// MaxBookmarksPerDay はユーザーあたりの1日のブックマーク作成上限。
	MaxBookmarksPerDay int
	// MaxBookmarksPerUser はユーザーあたりのブックマーク総数上限。
	MaxBookmarksPerUser int
}

// Provider は現在の上限値を提供するインターフェース。
// サービス層はリクエストごとにCurrentを呼び、常に最新の値を参照する。
type Provider interface {
	Current() Limits
}

// DynamicProvider は実行中に上限値を差し替え可能なProviderの実装。
// 読み取りはロックフリーで、並行リクエストから安全に参照できる。
type DynamicProvider struct {
	v atomic.Value
}

// NewDynamicProvider は初期値を設定したDynamicProviderを生成する。
func NewDynamicProvider(initial Limits) *DynamicProvider {
	p := &DynamicProvider{}
	p.v.Store(initial)
	return p
}

// Current は現在の上限値を返す。
func (p *DynamicProvider) Current() Limits {
	return p.v.Load().(Limits)
}

// Update は上限値を差し替える。以降のリクエストから新しい値が適用される。
func (p *DynamicProvider) Update(limits Limits) {
	p.v.Store(limits)
}

// compile-time interface check
var _ Provider = (*DynamicProvider)(nil)
