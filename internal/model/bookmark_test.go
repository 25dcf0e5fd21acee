package model

import (
	"testing"
	"time"
)

// TestReminderType_RequiresReminderAt は種別ごとの時刻必須判定テーブルを検証する。
func TestReminderType_RequiresReminderAt(t *testing.T) {
	tests := []struct {
		reminderType ReminderType
		want         bool
	}{
		{ReminderTypeNone, false},
		{ReminderTypeAtDesiredTime, true},
		{ReminderTypeLaterToday, true},
		{ReminderTypeTomorrow, true},
		{ReminderTypeNextWeek, true},
		{ReminderTypeNextMonth, true},
		{ReminderTypeCustom, true},
	}

	for _, tt := range tests {
		if got := tt.reminderType.RequiresReminderAt(); got != tt.want {
			t.Errorf("%s.RequiresReminderAt() = %v, want %v", tt.reminderType, got, tt.want)
		}
	}
}

// TestParseReminderType_EmptyString は空文字列がnoneとして扱われることを検証する。
func TestParseReminderType_EmptyString(t *testing.T) {
	rt, ok := ParseReminderType("")
	if !ok {
		t.Fatal("expected ok for empty string")
	}
	if rt != ReminderTypeNone {
		t.Errorf("ParseReminderType(\"\") = %q, want %q", rt, ReminderTypeNone)
	}
}

// TestParseReminderType_Unknown は未知の値が拒否されることを検証する。
func TestParseReminderType_Unknown(t *testing.T) {
	if _, ok := ParseReminderType("next_century"); ok {
		t.Error("expected ok=false for unknown reminder type")
	}
}

// TestParseReminderType_Known は既知の値がそのまま解析されることを検証する。
func TestParseReminderType_Known(t *testing.T) {
	rt, ok := ParseReminderType("tomorrow")
	if !ok {
		t.Fatal("expected ok for tomorrow")
	}
	if rt != ReminderTypeTomorrow {
		t.Errorf("ParseReminderType(\"tomorrow\") = %q, want %q", rt, ReminderTypeTomorrow)
	}
}

// TestBookmark_HasPostTarget は対象種別の判定を検証する。
func TestBookmark_HasPostTarget(t *testing.T) {
	postID := "post-1"
	topicID := "topic-1"
	empty := ""

	postBookmark := &Bookmark{PostID: &postID, TopicID: &topicID}
	if !postBookmark.HasPostTarget() {
		t.Error("expected HasPostTarget() = true when PostID is set")
	}

	topicBookmark := &Bookmark{TopicID: &topicID}
	if topicBookmark.HasPostTarget() {
		t.Error("expected HasPostTarget() = false when PostID is nil")
	}

	emptyPost := &Bookmark{PostID: &empty, TopicID: &topicID, CreatedAt: time.Now()}
	if emptyPost.HasPostTarget() {
		t.Error("expected HasPostTarget() = false when PostID is empty")
	}
}
