// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// 認証・ユーザー管理は本サービスの対象外のため、リクエスト主体の
// 識別に必要な最小限の情報のみを保持する。
type User struct {
	ID        string
	Email     string
	Name      string
	CreatedAt time.Time
}

// Session はユーザーのログインセッションを表す。
// セッションの発行は外部の認証基盤が行い、本サービスは参照のみを行う。
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}
