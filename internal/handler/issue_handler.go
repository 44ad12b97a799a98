package handler

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/hitoshi/taskboard/internal/dto"
	"github.com/hitoshi/taskboard/internal/issue"
	"github.com/hitoshi/taskboard/internal/middleware"
	"github.com/hitoshi/taskboard/internal/model"
)

// IssueServiceInterface は課題ハンドラーが必要とするサービスインターフェース。
type IssueServiceInterface interface {
	List(ctx context.Context, principal, workspaceID int64, filter issue.Filter) (map[string][]dto.IssueResponse, error)
	Get(ctx context.Context, principal, workspaceID, issueID int64) (*dto.IssueResponse, error)
	Create(ctx context.Context, principal, workspaceID int64, req dto.IssueCreate) (*dto.IssueResponse, error)
	Update(ctx context.Context, principal, workspaceID, issueID int64, req dto.IssueUpdate) (*dto.IssueResponse, error)
	Delete(ctx context.Context, principal, workspaceID, issueID int64) error
}

// IssueHandler は課題管理のHTTPハンドラー。
type IssueHandler struct {
	service IssueServiceInterface
}

// NewIssueHandler はIssueHandlerを生成する。
func NewIssueHandler(service IssueServiceInterface) *IssueHandler {
	return &IssueHandler{service: service}
}

// listValues は同名パラメータの繰り返しとカンマ区切りの両方を受け付け、空要素を除いて返す。
func listValues(values url.Values, key string) []string {
	var out []string
	for _, raw := range values[key] {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

// parseFilter は課題一覧のクエリパラメータをFilterに変換して検証する。
func parseFilter(r *http.Request) (issue.Filter, error) {
	values := r.URL.Query()
	f := issue.Filter{
		SortBy:    values.Get("sortBy"),
		SortOrder: values.Get("sortOrder"),
		GroupBy:   values.Get("groupBy"),
	}

	var details []string
	for _, v := range listValues(values, "projectIds") {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || (id <= 0 && id != model.NoProjectID) {
			details = append(details, "invalid projectIds value: "+v)
			continue
		}
		f.ProjectIDs = append(f.ProjectIDs, id)
	}
	for _, v := range listValues(values, "statuses") {
		f.Statuses = append(f.Statuses, model.Status(v))
	}
	for _, v := range listValues(values, "priorities") {
		f.Priorities = append(f.Priorities, model.Priority(v))
	}
	if len(details) > 0 {
		return f, model.NewValidationError(details...)
	}

	if err := f.Validate(); err != nil {
		return f, err
	}
	return f, nil
}

// List はワークスペース内の課題を絞り込み・並び替えてグループ別に返す。
// GET /api/v1/workspaces/{workspaceId}/issues?projectIds=&statuses=&priorities=&sortBy=&sortOrder=&groupBy=
func (h *IssueHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	wsID, err := pathID(r, "workspaceId")
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	filter, err := parseFilter(r)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	groups, err := h.service.List(r.Context(), userID, wsID, filter)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if groups == nil {
		groups = map[string][]dto.IssueResponse{}
	}

	middleware.WriteJSON(w, http.StatusOK, groups)
}

// Get は課題を1件返す。
// GET /api/v1/workspaces/{workspaceId}/issues/{issueId}
func (h *IssueHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	wsID, issueID, err := issuePath(r)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	resp, err := h.service.Get(r.Context(), userID, wsID, issueID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, resp)
}

// Create は課題を作成する。
// POST /api/v1/workspaces/{workspaceId}/issues
func (h *IssueHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	wsID, err := pathID(r, "workspaceId")
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	var req dto.IssueCreate
	if err := decodeJSON(w, r, &req); err != nil {
		handleServiceError(w, r, err)
		return
	}

	resp, err := h.service.Create(r.Context(), userID, wsID, req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, resp)
}

// Update は課題を部分更新する。projectIdに-1を指定するとプロジェクトを解除する。
// PUT /api/v1/workspaces/{workspaceId}/issues/{issueId}
func (h *IssueHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	wsID, issueID, err := issuePath(r)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	var req dto.IssueUpdate
	if err := decodeJSON(w, r, &req); err != nil {
		handleServiceError(w, r, err)
		return
	}

	resp, err := h.service.Update(r.Context(), userID, wsID, issueID, req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, resp)
}

// Delete は課題を削除する。
// DELETE /api/v1/workspaces/{workspaceId}/issues/{issueId}
func (h *IssueHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	wsID, issueID, err := issuePath(r)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), userID, wsID, issueID); err != nil {
		handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func issuePath(r *http.Request) (int64, int64, error) {
	wsID, err := pathID(r, "workspaceId")
	if err != nil {
		return 0, 0, err
	}
	issueID, err := pathID(r, "issueId")
	if err != nil {
		return 0, 0, err
	}
	return wsID, issueID, nil
}
