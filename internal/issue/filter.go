// Package issue は課題の一覧検索（絞り込み・並び替え・グルーピング）と課題管理のドメインロジックを提供する。
package issue

import (
	"slices"

	"github.com/hitoshi/taskboard/internal/model"
)

// 並び替えキー
const (
	SortByTitle     = "title"
	SortByStatus    = "status"
	SortByPriority  = "priority"
	SortByCreatedAt = "createdAt"
)

// 並び順
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// グルーピングキー
const (
	GroupByStatus   = "status"
	GroupByPriority = "priority"
	GroupByProject  = "project"
	GroupByNone     = "none"
)

var (
	sortKeys   = []string{SortByTitle, SortByStatus, SortByPriority, SortByCreatedAt}
	sortOrders = []string{SortAsc, SortDesc}
	groupKeys  = []string{GroupByStatus, GroupByPriority, GroupByProject, GroupByNone}
)

// Filter は課題一覧の検索条件。
// 空のスライスは「絞り込みなし」を意味する。
// ProjectIDsにmodel.NoProjectIDを含めるとプロジェクト未設定の課題も対象になる。
type Filter struct {
	ProjectIDs []int64
	Statuses   []model.Status
	Priorities []model.Priority
	SortBy     string
	SortOrder  string
	GroupBy    string
}

// Normalize は未指定・未知の値を既定値に置き換えたFilterを返す。
// 既定値は createdAt / desc / status。
func (f Filter) Normalize() Filter {
	if !slices.Contains(sortKeys, f.SortBy) {
		f.SortBy = SortByCreatedAt
	}
	if !slices.Contains(sortOrders, f.SortOrder) {
		f.SortOrder = SortDesc
	}
	if !slices.Contains(groupKeys, f.GroupBy) {
		f.GroupBy = GroupByStatus
	}
	return f
}

// Validate は未知の並び替えキー、並び順、グルーピングキー、ステータス、優先度を検証エラーにする。
// 空文字列は未指定として扱う。
func (f Filter) Validate() error {
	var details []string
	if f.SortBy != "" && !slices.Contains(sortKeys, f.SortBy) {
		details = append(details, "sortBy must be one of title, status, priority, createdAt")
	}
	if f.SortOrder != "" && !slices.Contains(sortOrders, f.SortOrder) {
		details = append(details, "sortOrder must be asc or desc")
	}
	if f.GroupBy != "" && !slices.Contains(groupKeys, f.GroupBy) {
		details = append(details, "groupBy must be one of status, priority, project, none")
	}
	for _, s := range f.Statuses {
		if !s.Valid() {
			details = append(details, "unknown status: "+string(s))
		}
	}
	for _, p := range f.Priorities {
		if !p.Valid() {
			details = append(details, "unknown priority: "+string(p))
		}
	}
	if len(details) > 0 {
		return model.NewValidationError(details...)
	}
	return nil
}
