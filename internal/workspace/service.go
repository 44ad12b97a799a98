// Package workspace はワークスペース管理のドメインロジックを提供する。
package workspace

import (
	"context"
	"fmt"

	"github.com/hitoshi/taskboard/internal/access"
	"github.com/hitoshi/taskboard/internal/dto"
	"github.com/hitoshi/taskboard/internal/model"
	"github.com/hitoshi/taskboard/internal/repository"
	"github.com/hitoshi/taskboard/internal/security"
)

// Service はワークスペース管理のサービス層。
type Service struct {
	guard     *access.Guard
	repo      repository.WorkspaceRepository
	sanitizer security.TextSanitizer
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(guard *access.Guard, repo repository.WorkspaceRepository, sanitizer security.TextSanitizer) *Service {
	return &Service{
		guard:     guard,
		repo:      repo,
		sanitizer: sanitizer,
	}
}

// List はユーザーが所有するワークスペースを作成日時の降順で返す。
func (s *Service) List(ctx context.Context, principal int64) ([]dto.WorkspaceResponse, error) {
	list, err := s.repo.ListByUserID(ctx, principal)
	if err != nil {
		return nil, fmt.Errorf("ワークスペース一覧の取得に失敗しました: %w", err)
	}
	return dto.ToWorkspaceResponses(list), nil
}

// Get はワークスペースを取得する。
func (s *Service) Get(ctx context.Context, principal, workspaceID int64) (*dto.WorkspaceResponse, error) {
	ws, err := s.guard.ResolveWorkspace(ctx, workspaceID, principal)
	if err != nil {
		return nil, err
	}
	resp := dto.ToWorkspaceResponse(ws)
	return &resp, nil
}

// Create はprincipalを所有者とするワークスペースを作成する。
func (s *Service) Create(ctx context.Context, principal int64, req dto.WorkspaceCreate) (*dto.WorkspaceResponse, error) {
	req.Name = s.sanitizer.Sanitize(req.Name)
	req.Description = s.sanitizer.SanitizePtr(req.Description)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ws := &model.Workspace{
		Name:        req.Name,
		Description: req.Description,
		UserID:      principal,
	}
	if err := s.repo.Create(ctx, ws); err != nil {
		return nil, fmt.Errorf("ワークスペースの作成に失敗しました: %w", err)
	}

	resp := dto.ToWorkspaceResponse(ws)
	return &resp, nil
}

// Update は指定されたフィールドのみ更新する。
func (s *Service) Update(ctx context.Context, principal, workspaceID int64, req dto.WorkspaceUpdate) (*dto.WorkspaceResponse, error) {
	ws, err := s.guard.ResolveWorkspace(ctx, workspaceID, principal)
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

	req.ApplyTo(ws)
	if err := s.repo.Update(ctx, ws); err != nil {
		return nil, fmt.Errorf("ワークスペースの更新に失敗しました: %w", err)
	}

	resp := dto.ToWorkspaceResponse(ws)
	return &resp, nil
}

// Delete はワークスペースを削除する。配下のプロジェクトと課題も削除される。
func (s *Service) Delete(ctx context.Context, principal, workspaceID int64) error {
	if _, err := s.guard.ResolveWorkspace(ctx, workspaceID, principal); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, workspaceID); err != nil {
		return fmt.Errorf("ワークスペースの削除に失敗しました: %w", err)
	}
	return nil
}
