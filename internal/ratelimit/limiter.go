// Package ratelimit はアクター・アクション・日次ウィンドウ単位の
// 回数制限を提供する。トークンバケット方式のHTTPミドルウェア
// （middlewareパッケージ）とは独立した、ドメインレベルの粗い
// クォータ装置として設計されている。
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hitoshi/bookman/internal/clock"
)

// CounterStore はウィンドウ付きカウンターの永続化インターフェース。
// Incrementはカウンターを1増やし、増加後の値をアトミックに返す。
// 実装は並行アクセスに対して安全でなければならない。
type CounterStore interface {
	Increment(ctx context.Context, key string, window time.Time) (int, error)
}

// Limiter はアクターごとの日次アクション回数を制限する。
// インクリメント後に上限と比較するため、拒否されたインクリメントは
// 巻き戻されない。同一ウィンドウ内での再試行はカウンターを消費する
// だけなので、呼び出し側は拒否後の再試行を行わないこと。
type Limiter struct {
	store CounterStore
	clock clock.Clock
}

// NewLimiter は新しいLimiterを生成する。
func NewLimiter(store CounterStore, clk clock.Clock) *Limiter {
	return &Limiter{
		store: store,
		clock: clk,
	}
}

// Admit はアクターのアクション実行を許可するかどうかを判定する。
// 現在のUTC日付をウィンドウバケットとしてカウンターを増加させ、
// 増加後の値が上限以下であればtrueを返す。
// maxCountが0以下の場合は1として扱う。制限値の設定ミスで
// リミッターが素通しになることを防ぐための下限。
func (l *Limiter) Admit(ctx context.Context, actorID, actionKey string, maxCount int) (bool, error) {
	if maxCount <= 0 {
		maxCount = 1
	}

	window := l.window()
	key := fmt.Sprintf("%s:%s", actorID, actionKey)

	count, err := l.store.Increment(ctx, key, window)
	if err != nil {
		return false, fmt.Errorf("レート制限カウンターの更新に失敗しました: %w", err)
	}

	return count <= maxCount, nil
}

// window は現在時刻が属する日次ウィンドウバケットを返す。
// UTCの0時を境界とする。
func (l *Limiter) window() time.Time {
	now := l.clock.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// MemoryCounterStore はメモリ上のCounterStore実装。
// 単一プロセス構成およびテストで使用する。
type MemoryCounterStore struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewMemoryCounterStore は新しいMemoryCounterStoreを生成する。
func NewMemoryCounterStore() *MemoryCounterStore {
	return &MemoryCounterStore{
		counts: make(map[string]int),
	}
}

// Increment はキーとウィンドウの組に対応するカウンターを1増やし、増加後の値を返す。
func (s *MemoryCounterStore) Increment(ctx context.Context, key string, window time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucketKey := fmt.Sprintf("%s:%s", key, window.Format("2006-01-02"))
	s.counts[bucketKey]++
	return s.counts[bucketKey], nil
}

// Purge は指定日時より前のウィンドウのカウンターを削除する。
// 長時間稼働時のメモリ増加を抑えるために定期実行する。
func (s *MemoryCounterStore) Purge(before time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := before.UTC().Format("2006-01-02")
	removed := 0
	for bucketKey := range s.counts {
		// bucketKeyの末尾10文字がウィンドウ日付
		if len(bucketKey) < 10 {
			continue
		}
		if bucketKey[len(bucketKey)-10:] < cutoff {
			delete(s.counts, bucketKey)
			removed++
		}
	}
	return removed
}

// compile-time interface check
var _ CounterStore = (*MemoryCounterStore)(nil)
