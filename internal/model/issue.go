package model

import "time"

// NoProjectID は「プロジェクトなし」を表す番兵値。
// 更新ペイロードではプロジェクト解除、一覧フィルタではプロジェクト未設定の課題を意味する。
const NoProjectID int64 = -1

// Status は課題の進捗状態を表す。
type Status string

const (
	StatusBacklog    Status = "BACKLOG"
	StatusToDo       Status = "TO_DO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
	StatusCanceled   Status = "CANCELED"
	StatusDuplicate  Status = "DUPLICATE"
)

// Statuses は宣言順（=並び替え時の順位）に並べた全Status。
var Statuses = []Status{
	StatusBacklog,
	StatusToDo,
	StatusInProgress,
	StatusDone,
	StatusCanceled,
	StatusDuplicate,
}

// Rank はStatusの宣言順の順位を返す。未知の値は-1。
func (s Status) Rank() int {
	for i, v := range Statuses {
		if v == s {
			return i
		}
	}
	return -1
}

// Valid はStatusが定義済みの値かどうかを返す。
func (s Status) Valid() bool {
	return s.Rank() >= 0
}

// Priority は課題の優先度を表す。
type Priority string

const (
	PriorityNone     Priority = "NONE"
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

// Priorities は宣言順（=並び替え時の順位）に並べた全Priority。
var Priorities = []Priority{
	PriorityNone,
	PriorityLow,
	PriorityMedium,
	PriorityHigh,
	PriorityCritical,
}

// Rank はPriorityの宣言順の順位を返す。未知の値は-1。
func (p Priority) Rank() int {
	for i, v := range Priorities {
		if v == p {
			return i
		}
	}
	return -1
}

// Valid はPriorityが定義済みの値かどうかを返す。
func (p Priority) Valid() bool {
	return p.Rank() >= 0
}

// Issue はワークスペース内の作業項目を表す。
// ProjectIDがnilの場合はどのプロジェクトにも属さない。
type Issue struct {
	ID          int64
	Title       string
	Description *string
	Priority    Priority
	Status      Status
	CreatedAt   time.Time
	WorkspaceID int64
	ProjectID   *int64

	// Project はJOINで取得した所属プロジェクト。ProjectIDがnilの場合はnil。
	Project *Project
}
