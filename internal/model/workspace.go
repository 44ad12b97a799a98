package model

import "time"

// Workspace はユーザーが所有するテナント単位。
// プロジェクトと課題はすべていずれかのワークスペースに属する。
type Workspace struct {
	ID          int64
	Name        string
	Description *string
	CreatedAt   time.Time
	UserID      int64
}

// Project はワークスペース内の課題のグルーピング。
type Project struct {
	ID          int64
	Name        string
	Description *string
	CreatedAt   time.Time
	WorkspaceID int64
}
