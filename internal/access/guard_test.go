package access

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/taskboard/internal/model"
)

// --- モック ---

type mockWorkspaceFinder struct {
	findByIDFn func(ctx context.Context, id int64) (*model.Workspace, error)
}

func (m *mockWorkspaceFinder) FindByID(ctx context.Context, id int64) (*model.Workspace, error) {
	return m.findByIDFn(ctx, id)
}

type mockProjectFinder struct {
	findByIDFn func(ctx context.Context, id int64) (*model.Project, error)
}

func (m *mockProjectFinder) FindByID(ctx context.Context, id int64) (*model.Project, error) {
	return m.findByIDFn(ctx, id)
}

type mockIssueFinder struct {
	findByIDFn func(ctx context.Context, id int64) (*model.Issue, error)
}

func (m *mockIssueFinder) FindByID(ctx context.Context, id int64) (*model.Issue, error) {
	return m.findByIDFn(ctx, id)
}

// newTestGuard はユーザー1がワークスペース10と11、ユーザー2がワークスペース20を所有する状態のGuardを返す。
// プロジェクトは100/110/200、課題は1000/1100/2000がそれぞれのワークスペースに属する。
func newTestGuard() *Guard {
	workspaces := map[int64]*model.Workspace{
		10: {ID: 10, Name: "a", UserID: 1},
		11: {ID: 11, Name: "a2", UserID: 1},
		20: {ID: 20, Name: "b", UserID: 2},
	}
	projects := map[int64]*model.Project{
		100: {ID: 100, Name: "p", WorkspaceID: 10},
		110: {ID: 110, Name: "p2", WorkspaceID: 11},
		200: {ID: 200, Name: "q", WorkspaceID: 20},
	}
	issues := map[int64]*model.Issue{
		1000: {ID: 1000, Title: "i", WorkspaceID: 10},
		1100: {ID: 1100, Title: "i2", WorkspaceID: 11},
		2000: {ID: 2000, Title: "j", WorkspaceID: 20},
	}
	return NewGuard(
		&mockWorkspaceFinder{findByIDFn: func(_ context.Context, id int64) (*model.Workspace, error) {
			return workspaces[id], nil
		}},
		&mockProjectFinder{findByIDFn: func(_ context.Context, id int64) (*model.Project, error) {
			return projects[id], nil
		}},
		&mockIssueFinder{findByIDFn: func(_ context.Context, id int64) (*model.Issue, error) {
			return issues[id], nil
		}},
	)
}

func TestResolveWorkspace(t *testing.T) {
	g := newTestGuard()

	tests := []struct {
		name      string
		wsID      int64
		principal int64
		wantCode  string
	}{
		{"所有者は取得できる", 10, 1, ""},
		{"他ユーザーのワークスペースはForbidden", 20, 1, model.ErrCodeForbidden},
		{"存在しないワークスペースはNotFound", 99, 1, model.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws, err := g.ResolveWorkspace(context.Background(), tt.wsID, tt.principal)
			if code := model.ErrorCode(err); code != tt.wantCode {
				t.Fatalf("code = %q, want %q (err=%v)", code, tt.wantCode, err)
			}
			if tt.wantCode == "" && ws.ID != tt.wsID {
				t.Errorf("ws.ID = %d, want %d", ws.ID, tt.wsID)
			}
		})
	}
}

func TestResolveProjectInWorkspace(t *testing.T) {
	g := newTestGuard()

	tests := []struct {
		name      string
		projectID int64
		wsID      int64
		wantCode  string
	}{
		{"同じワークスペースのプロジェクト", 100, 10, ""},
		{"別ワークスペースのプロジェクトはMismatch", 110, 10, model.ErrCodeMismatch},
		{"存在しないプロジェクトはNotFound", 999, 10, model.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.ResolveProjectInWorkspace(context.Background(), tt.projectID, tt.wsID)
			if code := model.ErrorCode(err); code != tt.wantCode {
				t.Fatalf("code = %q, want %q (err=%v)", code, tt.wantCode, err)
			}
		})
	}
}

func TestResolveIssueInWorkspace(t *testing.T) {
	g := newTestGuard()

	tests := []struct {
		name      string
		issueID   int64
		wsID      int64
		principal int64
		wantCode  string
	}{
		{"所有ワークスペースの課題", 1000, 10, 1, ""},
		{"他ユーザーの課題はForbidden", 2000, 20, 1, model.ErrCodeForbidden},
		{"他ユーザーの課題は自分のワークスペース経由でもForbidden", 2000, 10, 1, model.ErrCodeForbidden},
		{"他ユーザーの課題は存在しないワークスペース経由でもForbidden", 2000, 99, 1, model.ErrCodeForbidden},
		{"自分の別ワークスペースの課題はMismatch", 1100, 10, 1, model.ErrCodeMismatch},
		{"存在しない課題はNotFound", 9999, 10, 1, model.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.ResolveIssueInWorkspace(context.Background(), tt.issueID, tt.wsID, tt.principal)
			if code := model.ErrorCode(err); code != tt.wantCode {
				t.Fatalf("code = %q, want %q (err=%v)", code, tt.wantCode, err)
			}
		})
	}
}

func TestResolveProjectForPrincipal(t *testing.T) {
	g := newTestGuard()

	tests := []struct {
		name      string
		projectID int64
		wsID      int64
		principal int64
		wantCode  string
	}{
		{"所有ワークスペースのプロジェクト", 100, 10, 1, ""},
		{"他ユーザーのワークスペースはForbidden", 200, 20, 1, model.ErrCodeForbidden},
		{"自分のワークスペースと他人のプロジェクトはMismatch", 200, 10, 1, model.ErrCodeMismatch},
		{"存在しないワークスペースはNotFound", 100, 99, 1, model.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.ResolveProjectForPrincipal(context.Background(), tt.projectID, tt.wsID, tt.principal)
			if code := model.ErrorCode(err); code != tt.wantCode {
				t.Fatalf("code = %q, want %q (err=%v)", code, tt.wantCode, err)
			}
		})
	}
}

// 他ユーザーが所有する全エンティティに対して、どの解決操作もForbiddenになる
func TestGuard_ForeignWorkspaceAlwaysForbidden(t *testing.T) {
	g := newTestGuard()
	ctx := context.Background()
	const principal = 1

	if _, err := g.ResolveWorkspace(ctx, 20, principal); model.ErrorCode(err) != model.ErrCodeForbidden {
		t.Errorf("ResolveWorkspace: %v", err)
	}
	if _, err := g.ResolveProjectForPrincipal(ctx, 200, 20, principal); model.ErrorCode(err) != model.ErrCodeForbidden {
		t.Errorf("ResolveProjectForPrincipal: %v", err)
	}
	for _, wsID := range []int64{10, 20, 99} {
		if _, err := g.ResolveIssueInWorkspace(ctx, 2000, wsID, principal); model.ErrorCode(err) != model.ErrCodeForbidden {
			t.Errorf("ResolveIssueInWorkspace(ws=%d): %v", wsID, err)
		}
	}
}

func TestResolve_RepositoryErrorIsNotAPIError(t *testing.T) {
	dbErr := errors.New("connection refused")
	g := NewGuard(
		&mockWorkspaceFinder{findByIDFn: func(context.Context, int64) (*model.Workspace, error) {
			return nil, dbErr
		}},
		nil, nil,
	)

	_, err := g.ResolveWorkspace(context.Background(), 10, 1)
	if !errors.Is(err, dbErr) {
		t.Fatalf("リポジトリのエラーがラップされていない: %v", err)
	}
	if model.ErrorCode(err) != "" {
		t.Errorf("インフラエラーがAPIErrorになっている: %v", err)
	}
}

func TestResolveWorkspace_LoadsWorkspaceOnce(t *testing.T) {
	var calls int
	g := NewGuard(
		&mockWorkspaceFinder{findByIDFn: func(_ context.Context, id int64) (*model.Workspace, error) {
			calls++
			return &model.Workspace{ID: id, Name: "a", UserID: 1}, nil
		}},
		nil, nil,
	)

	for _, principal := range []int64{1, 2} {
		calls = 0
		_, _ = g.ResolveWorkspace(context.Background(), 10, principal)
		if calls != 1 {
			t.Errorf("principal=%d: ワークスペースの取得回数 = %d, want 1", principal, calls)
		}
	}
}
