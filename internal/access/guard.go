// Package access はワークスペースを起点とした所有権チェーンの認可を提供する。
package access

import (
	"context"
	"fmt"

	"github.com/hitoshi/taskboard/internal/model"
)

// WorkspaceFinder はワークスペースをIDで取得する。見つからない場合はnilを返す。
type WorkspaceFinder interface {
	FindByID(ctx context.Context, id int64) (*model.Workspace, error)
}

// ProjectFinder はプロジェクトをIDで取得する。見つからない場合はnilを返す。
type ProjectFinder interface {
	FindByID(ctx context.Context, id int64) (*model.Project, error)
}

// IssueFinder は課題をIDで取得する。見つからない場合はnilを返す。
type IssueFinder interface {
	FindByID(ctx context.Context, id int64) (*model.Issue, error)
}

// Guard はリクエストのパスに含まれるIDを信用せず、
// 対象エンティティから所有ユーザーまでを辿って認可する。
// プロジェクトと課題を扱う操作は必ずGuardを経由して対象を取得する。
type Guard struct {
	workspaces WorkspaceFinder
	projects   ProjectFinder
	issues     IssueFinder
}

// NewGuard はGuardを生成する。
func NewGuard(workspaces WorkspaceFinder, projects ProjectFinder, issues IssueFinder) *Guard {
	return &Guard{
		workspaces: workspaces,
		projects:   projects,
		issues:     issues,
	}
}

// scope はエンティティの種類ごとの認可チェックの定義。
// 存在確認 → 所有者確認 → 所属確認 の順序はresolveが固定する。
type scope[T any] struct {
	entity string
	load   func(ctx context.Context, id int64) (*T, error)
	// workspaceOf はエンティティが属するワークスペースIDを返す。
	workspaceOf func(*T) int64
	// checkOwner がtrueの場合、エンティティ自身のワークスペースの所有者を確認する。
	checkOwner bool
	// ownerOf が設定されている場合、所有者確認にワークスペースを再取得せずこの値を使う。
	ownerOf func(*T) int64
	// expectWorkspace が0より大きい場合、所属ワークスペースとの一致を確認する。
	expectWorkspace int64
}

func resolve[T any](ctx context.Context, g *Guard, sc scope[T], id, principal int64) (*T, error) {
	entity, err := sc.load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%sの取得に失敗しました: %w", sc.entity, err)
	}
	if entity == nil {
		return nil, model.NewNotFoundError(sc.entity, id)
	}

	wsID := sc.workspaceOf(entity)

	if sc.checkOwner {
		var owned bool
		if sc.ownerOf != nil {
			owned = sc.ownerOf(entity) == principal
		} else {
			owned, err = g.ownedBy(ctx, wsID, principal)
			if err != nil {
				return nil, err
			}
		}
		if !owned {
			return nil, model.NewForbiddenError(sc.entity, id)
		}
	}

	if sc.expectWorkspace > 0 && wsID != sc.expectWorkspace {
		return nil, model.NewMismatchError(sc.entity, id, sc.expectWorkspace)
	}

	return entity, nil
}

// ownedBy はワークスペースwsIDの所有者がprincipalかどうかを返す。
// ワークスペースが存在しない場合はfalse。
func (g *Guard) ownedBy(ctx context.Context, wsID, principal int64) (bool, error) {
	if wsID == 0 {
		return false, nil
	}
	ws, err := g.workspaces.FindByID(ctx, wsID)
	if err != nil {
		return false, fmt.Errorf("ワークスペースの取得に失敗しました: %w", err)
	}
	return ws != nil && ws.UserID == principal, nil
}

// ResolveWorkspace はワークスペースを取得し、principalが所有者であることを確認する。
// 存在しない場合はNotFound、所有者が異なる場合はForbiddenを返す。
func (g *Guard) ResolveWorkspace(ctx context.Context, workspaceID, principal int64) (*model.Workspace, error) {
	return resolve(ctx, g, scope[model.Workspace]{
		entity:      "workspace",
		load:        g.workspaces.FindByID,
		workspaceOf: func(ws *model.Workspace) int64 { return ws.ID },
		checkOwner:  true,
		ownerOf:     func(ws *model.Workspace) int64 { return ws.UserID },
	}, workspaceID, principal)
}

// ResolveProjectInWorkspace はプロジェクトを取得し、workspaceIDに属することを確認する。
// 存在しない場合はNotFound、所属が異なる場合はMismatchを返す。
// ワークスペースの所有者確認は呼び出し側がResolveWorkspaceで済ませておくこと。
func (g *Guard) ResolveProjectInWorkspace(ctx context.Context, projectID, workspaceID int64) (*model.Project, error) {
	return resolve(ctx, g, scope[model.Project]{
		entity:          "project",
		load:            g.projects.FindByID,
		workspaceOf:     func(p *model.Project) int64 { return p.WorkspaceID },
		expectWorkspace: workspaceID,
	}, projectID, 0)
}

// ResolveIssueInWorkspace は課題を取得し、認可する。
// 存在しない場合はNotFound、課題自身のワークスペースの所有者がprincipalでない場合はForbidden、
// 課題がworkspaceIDに属さない場合はMismatchを返す。
// 所有者確認を所属確認より先に行うため、他ユーザーの課題は常にForbiddenになる。
func (g *Guard) ResolveIssueInWorkspace(ctx context.Context, issueID, workspaceID, principal int64) (*model.Issue, error) {
	return resolve(ctx, g, scope[model.Issue]{
		entity:          "issue",
		load:            g.issues.FindByID,
		workspaceOf:     func(i *model.Issue) int64 { return i.WorkspaceID },
		checkOwner:      true,
		expectWorkspace: workspaceID,
	}, issueID, principal)
}

// ResolveProjectForPrincipal はワークスペースの所有者確認の後にプロジェクトの所属を確認する。
func (g *Guard) ResolveProjectForPrincipal(ctx context.Context, projectID, workspaceID, principal int64) (*model.Project, error) {
	if _, err := g.ResolveWorkspace(ctx, workspaceID, principal); err != nil {
		return nil, err
	}
	return g.ResolveProjectInWorkspace(ctx, projectID, workspaceID)
}
