package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/taskboard/internal/dto"
	"github.com/hitoshi/taskboard/internal/issue"
	"github.com/hitoshi/taskboard/internal/middleware"
	"github.com/hitoshi/taskboard/internal/project"
)

// --- モック定義 ---

// mockAuthService はAuthServiceInterfaceのモック実装。
type mockAuthService struct {
	signupFn        func(ctx context.Context, req dto.SignupRequest) (*dto.AuthResponse, error)
	loginFn         func(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
	refreshFn       func(ctx context.Context, req dto.RefreshRequest) (*dto.AuthResponse, error)
	logoutFn        func(ctx context.Context, req dto.RefreshRequest) error
	resetRequestFn  func(ctx context.Context, req dto.PasswordResetRequest) error
	resetCompleteFn func(ctx context.Context, req dto.PasswordResetComplete) error
}

func (m *mockAuthService) Signup(ctx context.Context, req dto.SignupRequest) (*dto.AuthResponse, error) {
	return m.signupFn(ctx, req)
}

func (m *mockAuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	return m.loginFn(ctx, req)
}

func (m *mockAuthService) Refresh(ctx context.Context, req dto.RefreshRequest) (*dto.AuthResponse, error) {
	return m.refreshFn(ctx, req)
}

func (m *mockAuthService) Logout(ctx context.Context, req dto.RefreshRequest) error {
	return m.logoutFn(ctx, req)
}

func (m *mockAuthService) RequestPasswordReset(ctx context.Context, req dto.PasswordResetRequest) error {
	return m.resetRequestFn(ctx, req)
}

func (m *mockAuthService) CompletePasswordReset(ctx context.Context, req dto.PasswordResetComplete) error {
	return m.resetCompleteFn(ctx, req)
}

// mockUserService はUserServiceInterfaceのモック実装。
type mockUserService struct {
	meFn             func(ctx context.Context, userID int64) (*dto.UserResponse, error)
	updateProfileFn  func(ctx context.Context, userID int64, req dto.UserUpdate) (*dto.UserResponse, error)
	changePasswordFn func(ctx context.Context, userID int64, req dto.PasswordChange) error
	withdrawFn       func(ctx context.Context, userID int64) error
}

func (m *mockUserService) Me(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	return m.meFn(ctx, userID)
}

func (m *mockUserService) UpdateProfile(ctx context.Context, userID int64, req dto.UserUpdate) (*dto.UserResponse, error) {
	return m.updateProfileFn(ctx, userID, req)
}

func (m *mockUserService) ChangePassword(ctx context.Context, userID int64, req dto.PasswordChange) error {
	return m.changePasswordFn(ctx, userID, req)
}

func (m *mockUserService) Withdraw(ctx context.Context, userID int64) error {
	if m.withdrawFn != nil {
		return m.withdrawFn(ctx, userID)
	}
	return nil
}

// mockWorkspaceService はWorkspaceServiceInterfaceのモック実装。
type mockWorkspaceService struct {
	listFn   func(ctx context.Context, principal int64) ([]dto.WorkspaceResponse, error)
	getFn    func(ctx context.Context, principal, workspaceID int64) (*dto.WorkspaceResponse, error)
	createFn func(ctx context.Context, principal int64, req dto.WorkspaceCreate) (*dto.WorkspaceResponse, error)
	updateFn func(ctx context.Context, principal, workspaceID int64, req dto.WorkspaceUpdate) (*dto.WorkspaceResponse, error)
	deleteFn func(ctx context.Context, principal, workspaceID int64) error
}

func (m *mockWorkspaceService) List(ctx context.Context, principal int64) ([]dto.WorkspaceResponse, error) {
	return m.listFn(ctx, principal)
}

func (m *mockWorkspaceService) Get(ctx context.Context, principal, workspaceID int64) (*dto.WorkspaceResponse, error) {
	return m.getFn(ctx, principal, workspaceID)
}

func (m *mockWorkspaceService) Create(ctx context.Context, principal int64, req dto.WorkspaceCreate) (*dto.WorkspaceResponse, error) {
	return m.createFn(ctx, principal, req)
}

func (m *mockWorkspaceService) Update(ctx context.Context, principal, workspaceID int64, req dto.WorkspaceUpdate) (*dto.WorkspaceResponse, error) {
	return m.updateFn(ctx, principal, workspaceID, req)
}

func (m *mockWorkspaceService) Delete(ctx context.Context, principal, workspaceID int64) error {
	return m.deleteFn(ctx, principal, workspaceID)
}

// mockProjectService はProjectServiceInterfaceのモック実装。
type mockProjectService struct {
	listFn   func(ctx context.Context, principal, workspaceID int64, q project.ListQuery) (*dto.ProjectPage, error)
	getFn    func(ctx context.Context, principal, workspaceID, projectID int64) (*dto.ProjectResponse, error)
	createFn func(ctx context.Context, principal, workspaceID int64, req dto.ProjectCreate) (*dto.ProjectResponse, error)
	updateFn func(ctx context.Context, principal, workspaceID, projectID int64, req dto.ProjectUpdate) (*dto.ProjectResponse, error)
	deleteFn func(ctx context.Context, principal, workspaceID, projectID int64) error
}

func (m *mockProjectService) List(ctx context.Context, principal, workspaceID int64, q project.ListQuery) (*dto.ProjectPage, error) {
	return m.listFn(ctx, principal, workspaceID, q)
}

func (m *mockProjectService) Get(ctx context.Context, principal, workspaceID, projectID int64) (*dto.ProjectResponse, error) {
	return m.getFn(ctx, principal, workspaceID, projectID)
}

func (m *mockProjectService) Create(ctx context.Context, principal, workspaceID int64, req dto.ProjectCreate) (*dto.ProjectResponse, error) {
	return m.createFn(ctx, principal, workspaceID, req)
}

func (m *mockProjectService) Update(ctx context.Context, principal, workspaceID, projectID int64, req dto.ProjectUpdate) (*dto.ProjectResponse, error) {
	return m.updateFn(ctx, principal, workspaceID, projectID, req)
}

func (m *mockProjectService) Delete(ctx context.Context, principal, workspaceID, projectID int64) error {
	return m.deleteFn(ctx, principal, workspaceID, projectID)
}

// mockIssueService はIssueServiceInterfaceのモック実装。
type mockIssueService struct {
	listFn   func(ctx context.Context, principal, workspaceID int64, filter issue.Filter) (map[string][]dto.IssueResponse, error)
	getFn    func(ctx context.Context, principal, workspaceID, issueID int64) (*dto.IssueResponse, error)
	createFn func(ctx context.Context, principal, workspaceID int64, req dto.IssueCreate) (*dto.IssueResponse, error)
	updateFn func(ctx context.Context, principal, workspaceID, issueID int64, req dto.IssueUpdate) (*dto.IssueResponse, error)
	deleteFn func(ctx context.Context, principal, workspaceID, issueID int64) error
}

func (m *mockIssueService) List(ctx context.Context, principal, workspaceID int64, filter issue.Filter) (map[string][]dto.IssueResponse, error) {
	return m.listFn(ctx, principal, workspaceID, filter)
}

func (m *mockIssueService) Get(ctx context.Context, principal, workspaceID, issueID int64) (*dto.IssueResponse, error) {
	return m.getFn(ctx, principal, workspaceID, issueID)
}

func (m *mockIssueService) Create(ctx context.Context, principal, workspaceID int64, req dto.IssueCreate) (*dto.IssueResponse, error) {
	return m.createFn(ctx, principal, workspaceID, req)
}

func (m *mockIssueService) Update(ctx context.Context, principal, workspaceID, issueID int64, req dto.IssueUpdate) (*dto.IssueResponse, error) {
	return m.updateFn(ctx, principal, workspaceID, issueID, req)
}

func (m *mockIssueService) Delete(ctx context.Context, principal, workspaceID, issueID int64) error {
	return m.deleteFn(ctx, principal, workspaceID, issueID)
}

// --- ヘルパー ---

// withUserID はテスト用にリクエストコンテキストにユーザーIDを注入するヘルパー。
func withUserID(r *http.Request, userID int64) *http.Request {
	ctx := middleware.ContextWithUserID(r.Context(), userID)
	return r.WithContext(ctx)
}

// withChiURLParams はテスト用にchiのURLパラメータを注入するヘルパー。
// kvはキーと値を交互に並べる。
func withChiURLParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// testEnvelope はレスポンスエンベロープのdataを後からデコードできる形で受け取る。
type testEnvelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Details []string        `json:"details"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) testEnvelope {
	t.Helper()
	var env testEnvelope
	if err := json.NewDecoder(w.Body).Decode(&env); err != nil {
		t.Fatalf("レスポンスのデコードに失敗: %v", err)
	}
	return env
}

// decodeData はエンベロープのdataをdstにデコードする。
func decodeData(t *testing.T, env testEnvelope, dst any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("dataのデコードに失敗: %v (data=%s)", err, env.Data)
	}
}
