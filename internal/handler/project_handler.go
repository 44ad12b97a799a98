package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/hitoshi/taskboard/internal/dto"
	"github.com/hitoshi/taskboard/internal/middleware"
	"github.com/hitoshi/taskboard/internal/model"
	"github.com/hitoshi/taskboard/internal/project"
)

// ProjectServiceInterface はプロジェクトハンドラーが必要とするサービスインターフェース。
type ProjectServiceInterface interface {
	List(ctx context.Context, principal, workspaceID int64, q project.ListQuery) (*dto.ProjectPage, error)
	Get(ctx context.Context, principal, workspaceID, projectID int64) (*dto.ProjectResponse, error)
	Create(ctx context.Context, principal, workspaceID int64, req dto.ProjectCreate) (*dto.ProjectResponse, error)
	Update(ctx context.Context, principal, workspaceID, projectID int64, req dto.ProjectUpdate) (*dto.ProjectResponse, error)
	Delete(ctx context.Context, principal, workspaceID, projectID int64) error
}

// ProjectHandler はプロジェクト管理のHTTPハンドラー。
type ProjectHandler struct {
	service ProjectServiceInterface
}

// NewProjectHandler はProjectHandlerを生成する。
func NewProjectHandler(service ProjectServiceInterface) *ProjectHandler {
	return &ProjectHandler{service: service}
}

// parseListQuery はsortBy, sortOrder, page, sizeクエリパラメータを解析する。
func parseListQuery(r *http.Request) (project.ListQuery, error) {
	values := r.URL.Query()
	q := project.ListQuery{
		SortBy:    values.Get("sortBy"),
		SortOrder: values.Get("sortOrder"),
	}

	var details []string
	if v := values.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			details = append(details, "page must be an integer")
		} else {
			q.Page = &n
		}
	}
	if v := values.Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			details = append(details, "size must be an integer")
		} else {
			q.Size = &n
		}
	}
	if len(details) > 0 {
		return q, model.NewValidationError(details...)
	}

	if err := q.Validate(); err != nil {
		return q, err
	}
	return q, nil
}

// List はワークスペース内のプロジェクト一覧を返す。
// GET /api/v1/workspaces/{workspaceId}/projects?sortBy=&sortOrder=&page=&size=
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	wsID, err := pathID(r, "workspaceId")
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	q, err := parseListQuery(r)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	page, err := h.service.List(r.Context(), userID, wsID, q)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, page)
}

// Get はプロジェクトを1件返す。
// GET /api/v1/workspaces/{workspaceId}/projects/{projectId}
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	wsID, projectID, err := projectPath(r)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	resp, err := h.service.Get(r.Context(), userID, wsID, projectID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, resp)
}

// Create はワークスペース内にプロジェクトを作成する。
// POST /api/v1/workspaces/{workspaceId}/projects
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	wsID, err := pathID(r, "workspaceId")
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	var req dto.ProjectCreate
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

// Update はプロジェクトを部分更新する。
// PUT /api/v1/workspaces/{workspaceId}/projects/{projectId}
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	wsID, projectID, err := projectPath(r)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	var req dto.ProjectUpdate
	if err := decodeJSON(w, r, &req); err != nil {
		handleServiceError(w, r, err)
		return
	}

	resp, err := h.service.Update(r.Context(), userID, wsID, projectID, req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, resp)
}

// Delete はプロジェクトを削除する。所属していた課題はプロジェクトなしになる。
// DELETE /api/v1/workspaces/{workspaceId}/projects/{projectId}
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	wsID, projectID, err := projectPath(r)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), userID, wsID, projectID); err != nil {
		handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func projectPath(r *http.Request) (int64, int64, error) {
	wsID, err := pathID(r, "workspaceId")
	if err != nil {
		return 0, 0, err
	}
	projectID, err := pathID(r, "projectId")
	if err != nil {
		return 0, 0, err
	}
	return wsID, projectID, nil
}
