// Package clock は現在時刻の取得を抽象化する。
// レート制限のウィンドウ算出など時刻依存のロジックをテストで
// 決定的に検証できるようにするための注入ポイント。
package clock

import "time"

// Clock は現在時刻を提供するインターフェース。
type Clock interface {
	Now() time.Time
}

// SystemClock はシステム時刻を返すClockの実装。
type SystemClock struct{}

// Now は現在のシステム時刻を返す。
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Fixed は常に同じ時刻を返すClockを返す。テスト用。
func Fixed(t time.Time) Clock {
	return fixedClock{t: t}
}

type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time {
	return c.t
}
