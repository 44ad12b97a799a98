package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/taskboard/internal/dto"
	"github.com/hitoshi/taskboard/internal/middleware"
)

// WorkspaceServiceInterface はワークスペースハンドラーが必要とするサービスインターフェース。
type WorkspaceServiceInterface interface {
	List(ctx context.Context, principal int64) ([]dto.WorkspaceResponse, error)
	Get(ctx context.Context, principal, workspaceID int64) (*dto.WorkspaceResponse, error)
	Create(ctx context.Context, principal int64, req dto.WorkspaceCreate) (*dto.WorkspaceResponse, error)
	Update(ctx context.Context, principal, workspaceID int64, req dto.WorkspaceUpdate) (*dto.WorkspaceResponse, error)
	Delete(ctx context.Context, principal, workspaceID int64) error
}

// WorkspaceHandler はワークスペース管理のHTTPハンドラー。
type WorkspaceHandler struct {
	service WorkspaceServiceInterface
}

// NewWorkspaceHandler はWorkspaceHandlerを生成する。
func NewWorkspaceHandler(service WorkspaceServiceInterface) *WorkspaceHandler {
	return &WorkspaceHandler{service: service}
}

// List はログイン中のユーザーが所有するワークスペース一覧を返す。
// GET /api/v1/workspaces
func (h *WorkspaceHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	list, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if list == nil {
		list = []dto.WorkspaceResponse{}
	}

	middleware.WriteJSON(w, http.StatusOK, list)
}

// Get はワークスペースを1件返す。
// GET /api/v1/workspaces/{workspaceId}
func (h *WorkspaceHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	wsID, err := pathID(r, "workspaceId")
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	resp, err := h.service.Get(r.Context(), userID, wsID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, resp)
}

// Create はワークスペースを作成する。
// POST /api/v1/workspaces
func (h *WorkspaceHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req dto.WorkspaceCreate
	if err := decodeJSON(w, r, &req); err != nil {
		handleServiceError(w, r, err)
		return
	}

	resp, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, resp)
}

// Update はワークスペースを部分更新する。
// PUT /api/v1/workspaces/{workspaceId}
func (h *WorkspaceHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	wsID, err := pathID(r, "workspaceId")
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	var req dto.WorkspaceUpdate
	if err := decodeJSON(w, r, &req); err != nil {
		handleServiceError(w, r, err)
		return
	}

	resp, err := h.service.Update(r.Context(), userID, wsID, req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, resp)
}

// Delete はワークスペースと配下のプロジェクト・課題を削除する。
// DELETE /api/v1/workspaces/{workspaceId}
func (h *WorkspaceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	wsID, err := pathID(r, "workspaceId")
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), userID, wsID); err != nil {
		handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
