// Package model はドメインモデルを定義する。
package model

import "time"

// Bookmark はユーザーが投稿またはトピックに付けたブックマークを表す。
// 対象はPostIDとTopicIDのいずれか一方が必須（XOR）。PostIDが設定されて
// いる場合、同一性判定はPostIDで行われTopicIDは付随情報として扱われる。
// 作成後は変更されない（更新は本コアの対象外）。
type Bookmark struct {
	ID           string
	UserID       string
	PostID       *string
	TopicID      *string
	Name         string
	ReminderType ReminderType
	ReminderAt   *time.Time
	CreatedAt    time.Time
}

// HasPostTarget はブックマーク対象が投稿かどうかを返す。
func (b *Bookmark) HasPostTarget() bool {
	return b.PostID != nil && *b.PostID != ""
}

// ReminderType はリマインダーのスケジュール種別を表す。
type ReminderType string

const (
	// ReminderTypeNone はリマインダーなしを示す。
	ReminderTypeNone ReminderType = "none"
	// ReminderTypeAtDesiredTime はユーザー指定時刻のリマインダーを示す。
	ReminderTypeAtDesiredTime ReminderType = "at_desired_time"
	// ReminderTypeLaterToday は当日後刻のリマインダーを示す。
	ReminderTypeLaterToday ReminderType = "later_today"
	// ReminderTypeTomorrow は翌日のリマインダーを示す。
	ReminderTypeTomorrow ReminderType = "tomorrow"
	// ReminderTypeNextWeek は翌週のリマインダーを示す。
	ReminderTypeNextWeek ReminderType = "next_week"
	// ReminderTypeNextMonth は翌月のリマインダーを示す。
	ReminderTypeNextMonth ReminderType = "next_month"
	// ReminderTypeCustom は任意時刻のリマインダーを示す。
	ReminderTypeCustom ReminderType = "custom"
)

// reminderRequiresAt は各リマインダー種別が具体的なreminder_atを
// 必要とするかどうかの静的テーブル。クライアントが具体時刻を計算して
// 送信する前提のため、none以外はすべて時刻必須となる。
var reminderRequiresAt = map[ReminderType]bool{
	ReminderTypeNone:          false,
	ReminderTypeAtDesiredTime: true,
	ReminderTypeLaterToday:    true,
	ReminderTypeTomorrow:      true,
	ReminderTypeNextWeek:      true,
	ReminderTypeNextMonth:     true,
	ReminderTypeCustom:        true,
}

// RequiresReminderAt はこの種別が具体的なreminder_atを必要とするかを返す。
func (t ReminderType) RequiresReminderAt() bool {
	return reminderRequiresAt[t]
}

// ParseReminderType は文字列からReminderTypeを解析する。
// 空文字列はReminderTypeNoneとして扱う。未知の値はok=falseを返す。
func ParseReminderType(s string) (ReminderType, bool) {
	if s == "" {
		return ReminderTypeNone, true
	}
	t := ReminderType(s)
	if _, known := reminderRequiresAt[t]; !known {
		return "", false
	}
	return t, true
}
