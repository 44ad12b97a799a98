// Package user はユーザー管理のドメインロジックを提供する。
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hitoshi/taskboard/internal/auth"
	"github.com/hitoshi/taskboard/internal/dto"
	"github.com/hitoshi/taskboard/internal/model"
	"github.com/hitoshi/taskboard/internal/repository"
	"github.com/hitoshi/taskboard/internal/security"
)

// Service はユーザー管理のサービス層。
// プロフィール参照・更新、パスワード変更、退会を提供する。
type Service struct {
	userRepo  repository.UserRepository
	hasher    auth.PasswordHasher
	sanitizer security.TextSanitizer
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	userRepo repository.UserRepository,
	hasher auth.PasswordHasher,
	sanitizer security.TextSanitizer,
) *Service {
	return &Service{
		userRepo:  userRepo,
		hasher:    hasher,
		sanitizer: sanitizer,
	}
}

func (s *Service) load(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewNotFoundError("user", userID)
	}
	return user, nil
}

// Me はログイン中のユーザーを返す。
func (s *Service) Me(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToUserResponse(user)
	return &resp, nil
}

// UpdateProfile はユーザー名とメールアドレスを更新する。
// 他のユーザーが使用中の値を指定した場合はConflictを返す。
func (s *Service) UpdateProfile(ctx context.Context, userID int64, req dto.UserUpdate) (*dto.UserResponse, error) {
	if req.Username.Present() {
		req.Username.Value = s.sanitizer.Sanitize(req.Username.Value)
	}
	if req.Email.Present() {
		req.Email.Value = strings.TrimSpace(req.Email.Value)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username.Present() && req.Username.Value != user.Username {
		if err := s.ensureUnused(ctx, "username", userID, s.userRepo.FindByUsername, req.Username.Value); err != nil {
			return nil, err
		}
	}
	if req.Email.Present() && req.Email.Value != user.Email {
		if err := s.ensureUnused(ctx, "email", userID, s.userRepo.FindByEmail, req.Email.Value); err != nil {
			return nil, err
		}
	}

	req.ApplyTo(user)
	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, model.NewConflictError("user")
		}
		return nil, fmt.Errorf("ユーザーの更新に失敗しました: %w", err)
	}

	resp := dto.ToUserResponse(user)
	return &resp, nil
}

// ensureUnused はvalueを使用しているのがuserID以外のユーザーでないことを確認する。
func (s *Service) ensureUnused(
	ctx context.Context,
	field string,
	userID int64,
	find func(context.Context, string) (*model.User, error),
	value string,
) error {
	other, err := find(ctx, value)
	if err != nil {
		return fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if other != nil && other.ID != userID {
		return model.NewConflictError(field)
	}
	return nil
}

// ChangePassword は現在のパスワードを確認してから新しいパスワードに変更する。
// 現在のパスワードが一致しない場合はInvalidCredentialsを返す。
func (s *Service) ChangePassword(ctx context.Context, userID int64, req dto.PasswordChange) error {
	if err := req.Validate(); err != nil {
		return err
	}

	user, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	if !s.hasher.Matches(req.CurrentPassword, user.PasswordHash) {
		return model.NewInvalidCredentialsError()
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("パスワードの更新に失敗しました: %w", err)
	}

	slog.Info("password changed", slog.Int64("user_id", userID))
	return nil
}

// Withdraw はユーザーの退会処理を実行する。
// workspaces、projects、issues、tokensは外部キーのCASCADEで削除される。
func (s *Service) Withdraw(ctx context.Context, userID int64) error {
	if _, err := s.load(ctx, userID); err != nil {
		return err
	}

	slog.Info("退会処理を開始します",
		slog.Int64("user_id", userID),
	)

	if err := s.userRepo.DeleteByID(ctx, userID); err != nil {
		return fmt.Errorf("ユーザーの削除に失敗しました: %w", err)
	}

	slog.Info("退会処理が完了しました",
		slog.Int64("user_id", userID),
	)

	return nil
}
