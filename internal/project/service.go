// Package project はプロジェクト管理のドメインロジックを提供する。
package project

import (
	"context"
	"fmt"

	"github.com/hitoshi/taskboard/internal/access"
	"github.com/hitoshi/taskboard/internal/dto"
	"github.com/hitoshi/taskboard/internal/model"
	"github.com/hitoshi/taskboard/internal/repository"
	"github.com/hitoshi/taskboard/internal/security"
)

// 一覧取得で指定できるページングの上限。
// MaxPage*MaxPageSizeがOFFSETの最大値となる。
const (
	MaxPageSize = 100
	MaxPage     = 1_000_000
)

// ListQuery はプロジェクト一覧の並び順とページング条件。
// PageとSizeは両方指定するか両方省略する。省略時は全件を返す。Pageは0始まり。
type ListQuery struct {
	SortBy    string // "name" または "createdAt"（既定）
	SortOrder string // "asc" または "desc"（既定）
	Page      *int
	Size      *int
}

// Validate は並び替えキーとページング条件を検証する。
func (q ListQuery) Validate() error {
	var details []string
	switch q.SortBy {
	case "", "name", "createdAt":
	default:
		details = append(details, "sortBy must be name or createdAt")
	}
	switch q.SortOrder {
	case "", "asc", "desc":
	default:
		details = append(details, "sortOrder must be asc or desc")
	}
	if (q.Page == nil) != (q.Size == nil) {
		details = append(details, "page and size must be specified together")
	}
	if q.Page != nil && (*q.Page < 0 || *q.Page > MaxPage) {
		details = append(details, fmt.Sprintf("page must be between 0 and %d", MaxPage))
	}
	if q.Size != nil && (*q.Size < 1 || *q.Size > MaxPageSize) {
		details = append(details, fmt.Sprintf("size must be between 1 and %d", MaxPageSize))
	}
	if len(details) > 0 {
		return model.NewValidationError(details...)
	}
	return nil
}

func (q ListQuery) paged() bool {
	return q.Page != nil && q.Size != nil
}

// Service はプロジェクト管理のサービス層。
type Service struct {
	guard     *access.Guard
	repo      repository.ProjectRepository
	sanitizer security.TextSanitizer
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(guard *access.Guard, repo repository.ProjectRepository, sanitizer security.TextSanitizer) *Service {
	return &Service{
		guard:     guard,
		repo:      repo,
		sanitizer: sanitizer,
	}
}

// List はワークスペースのプロジェクト一覧を返す。
// ページング指定がない場合は全件を1ページとして返す。
func (s *Service) List(ctx context.Context, principal, workspaceID int64, q ListQuery) (*dto.ProjectPage, error) {
	if _, err := s.guard.ResolveWorkspace(ctx, workspaceID, principal); err != nil {
		return nil, err
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}

	params := repository.ProjectListParams{SortBy: q.SortBy, SortOrder: q.SortOrder}
	if q.paged() {
		params.Limit = uint64(*q.Size)
		params.Offset = uint64(*q.Page) * uint64(*q.Size)
	}

	list, err := s.repo.List(ctx, workspaceID, params)
	if err != nil {
		return nil, fmt.Errorf("プロジェクト一覧の取得に失敗しました: %w", err)
	}

	page := &dto.ProjectPage{Items: dto.ToProjectResponses(list)}
	if !q.paged() {
		page.Size = len(list)
		page.Total = int64(len(list))
		if len(list) > 0 {
			page.TotalPages = 1
		}
		return page, nil
	}

	total, err := s.repo.Count(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("プロジェクト数の取得に失敗しました: %w", err)
	}
	page.Page = *q.Page
	page.Size = *q.Size
	page.Total = total
	page.TotalPages = int((total + int64(*q.Size) - 1) / int64(*q.Size))
	return page, nil
}

// Get はプロジェクトを取得する。
func (s *Service) Get(ctx context.Context, principal, workspaceID, projectID int64) (*dto.ProjectResponse, error) {
	p, err := s.guard.ResolveProjectForPrincipal(ctx, projectID, workspaceID, principal)
	if err != nil {
		return nil, err
	}
	resp := dto.ToProjectResponse(p)
	return &resp, nil
}

// Create はワークスペースにプロジェクトを作成する。
func (s *Service) Create(ctx context.Context, principal, workspaceID int64, req dto.ProjectCreate) (*dto.ProjectResponse, error) {
	if _, err := s.guard.ResolveWorkspace(ctx, workspaceID, principal); err != nil {
		return nil, err
	}

	req.Name = s.sanitizer.Sanitize(req.Name)
	req.Description = s.sanitizer.SanitizePtr(req.Description)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p := &model.Project{
		Name:        req.Name,
		Description: req.Description,
		WorkspaceID: workspaceID,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("プロジェクトの作成に失敗しました: %w", err)
	}

	resp := dto.ToProjectResponse(p)
	return &resp, nil
}

// Update は指定されたフィールドのみ更新する。
func (s *Service) Update(ctx context.Context, principal, workspaceID, projectID int64, req dto.ProjectUpdate) (*dto.ProjectResponse, error) {
	p, err := s.guard.ResolveProjectForPrincipal(ctx, projectID, workspaceID, principal)
	if err != nil {
		return nil, err
	}

	if req.Name.Present() {
		req.Name.Value = s.sanitizer.Sanitize(req.Name.Value)
	}
	if req.Description.Present() {
		req.Description.Value = s.sanitizer.Sanitize(req.Description.Value)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	req.ApplyTo(p)
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("プロジェクトの更新に失敗しました: %w", err)
	}

	resp := dto.ToProjectResponse(p)
	return &resp, nil
}

// Delete はプロジェクトを削除する。所属していた課題はプロジェクトなしになる。
func (s *Service) Delete(ctx context.Context, principal, workspaceID, projectID int64) error {
	if _, err := s.guard.ResolveProjectForPrincipal(ctx, projectID, workspaceID, principal); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, projectID); err != nil {
		return fmt.Errorf("プロジェクトの削除に失敗しました: %w", err)
	}
	return nil
}
