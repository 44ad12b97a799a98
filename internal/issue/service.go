package issue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/taskboard/internal/access"
	"github.com/hitoshi/taskboard/internal/dto"
	"github.com/hitoshi/taskboard/internal/model"
	"github.com/hitoshi/taskboard/internal/repository"
	"github.com/hitoshi/taskboard/internal/security"
)

// Service は課題管理のサービス層。
// 全ての操作はaccess.Guardでワークスペースの所有者確認を行ってから課題に触れる。
type Service struct {
	guard     *access.Guard
	repo      repository.IssueRepository
	sanitizer security.TextSanitizer
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(guard *access.Guard, repo repository.IssueRepository, sanitizer security.TextSanitizer) *Service {
	return &Service{
		guard:     guard,
		repo:      repo,
		sanitizer: sanitizer,
	}
}

// List はワークスペースの課題を検索し、グループ別に返す。
func (s *Service) List(ctx context.Context, principal, workspaceID int64, filter Filter) (map[string][]dto.IssueResponse, error) {
	if _, err := s.guard.ResolveWorkspace(ctx, workspaceID, principal); err != nil {
		return nil, err
	}

	f := filter.Normalize()
	query, args, err := BuildQuery(workspaceID, f)
	if err != nil {
		return nil, fmt.Errorf("課題検索クエリの組み立てに失敗しました: %w", err)
	}

	issues, err := s.repo.ListByQuery(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("課題一覧の取得に失敗しました: %w", err)
	}

	return Group(issues, f.GroupBy), nil
}

// Get は課題を1件取得する。
func (s *Service) Get(ctx context.Context, principal, workspaceID, issueID int64) (*dto.IssueResponse, error) {
	issue, err := s.guard.ResolveIssueInWorkspace(ctx, issueID, workspaceID, principal)
	if err != nil {
		return nil, err
	}
	resp := dto.ToIssueResponse(issue)
	return &resp, nil
}

// Create はワークスペースに課題を作成する。
// プロジェクトを指定した場合は同じワークスペースに属することを確認する。
func (s *Service) Create(ctx context.Context, principal, workspaceID int64, req dto.IssueCreate) (*dto.IssueResponse, error) {
	if _, err := s.guard.ResolveWorkspace(ctx, workspaceID, principal); err != nil {
		return nil, err
	}

	req.Title = s.sanitizer.Sanitize(req.Title)
	req.Description = s.sanitizer.SanitizePtr(req.Description)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	issue := req.NewIssue(workspaceID)
	if issue.ProjectID != nil {
		project, err := s.guard.ResolveProjectInWorkspace(ctx, *issue.ProjectID, workspaceID)
		if err != nil {
			return nil, err
		}
		issue.Project = project
	}

	if err := s.repo.Create(ctx, issue); err != nil {
		return nil, fmt.Errorf("課題の作成に失敗しました: %w", err)
	}

	slog.Debug("issue created",
		slog.Int64("workspace_id", workspaceID),
		slog.Int64("issue_id", issue.ID),
	)

	resp := dto.ToIssueResponse(issue)
	return &resp, nil
}

// Update は課題の指定されたフィールドを更新する。
// projectIdに番兵値またはnullを指定するとプロジェクトを解除し、省略すると維持する。
func (s *Service) Update(ctx context.Context, principal, workspaceID, issueID int64, req dto.IssueUpdate) (*dto.IssueResponse, error) {
	issue, err := s.guard.ResolveIssueInWorkspace(ctx, issueID, workspaceID, principal)
	if err != nil {
		return nil, err
	}

	if req.Title.Present() {
		req.Title.Value = s.sanitizer.Sanitize(req.Title.Value)
	}
	if req.Description.Present() {
		req.Description.Value = s.sanitizer.Sanitize(req.Description.Value)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var project *model.Project
	if kind, projectID := req.ProjectChange(); kind == dto.ProjectAssign {
		project, err = s.guard.ResolveProjectInWorkspace(ctx, projectID, workspaceID)
		if err != nil {
			return nil, err
		}
	}

	req.ApplyTo(issue, project)

	if err := s.repo.Update(ctx, issue); err != nil {
		return nil, fmt.Errorf("課題の更新に失敗しました: %w", err)
	}

	resp := dto.ToIssueResponse(issue)
	return &resp, nil
}

// Delete は課題を削除する。
func (s *Service) Delete(ctx context.Context, principal, workspaceID, issueID int64) error {
	if _, err := s.guard.ResolveIssueInWorkspace(ctx, issueID, workspaceID, principal); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, issueID); err != nil {
		return fmt.Errorf("課題の削除に失敗しました: %w", err)
	}
	return nil
}
