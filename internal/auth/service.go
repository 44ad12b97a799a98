// Package auth はユーザー登録、ログイン、トークン再発行、パスワードリセットを提供する。
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hitoshi/taskboard/internal/dto"
	"github.com/hitoshi/taskboard/internal/model"
	"github.com/hitoshi/taskboard/internal/notify"
	"github.com/hitoshi/taskboard/internal/repository"
	"github.com/hitoshi/taskboard/internal/security"
)

// TokenStore はリフレッシュトークン、パスワードリセットトークンの永続化を扱う。
// token.Storeが実装する。
type TokenStore interface {
	IssueRefresh(ctx context.Context, userID int64) (*model.Token, error)
	NewRefresh(userID int64) *model.Token
	Issued(t *model.Token)
	IssuePasswordReset(ctx context.Context, userID int64) (*model.Token, error)
	Verify(ctx context.Context, tokenString string, kind model.TokenType) (*model.Token, error)
	Consume(ctx context.Context, t *model.Token) error
}

// AccessTokenIssuer はアクセストークンを発行する。
type AccessTokenIssuer interface {
	Issue(userID int64) (string, error)
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	users     repository.UserRepository
	tokens    TokenStore
	access    AccessTokenIssuer
	hasher    PasswordHasher
	notifier  notify.Notifier
	sanitizer security.TextSanitizer
}

// NewService はServiceを生成する。
func NewService(
	users repository.UserRepository,
	tokens TokenStore,
	access AccessTokenIssuer,
	hasher PasswordHasher,
	notifier notify.Notifier,
	sanitizer security.TextSanitizer,
) *Service {
	return &Service{
		users:     users,
		tokens:    tokens,
		access:    access,
		hasher:    hasher,
		notifier:  notifier,
		sanitizer: sanitizer,
	}
}

// Signup はユーザーを登録し、アクセストークンとリフレッシュトークンを発行する。
// ユーザー名またはメールアドレスが登録済みの場合はConflictを返す。
func (s *Service) Signup(ctx context.Context, req dto.SignupRequest) (*dto.AuthResponse, error) {
	req.Username = s.sanitizer.Sanitize(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := s.checkAvailable(ctx, req.Username, req.Email); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	}
	// リフレッシュトークンの保存に失敗した場合はユーザーも作成しない
	refresh := s.tokens.NewRefresh(0)
	if err := s.users.CreateWithToken(ctx, user, refresh); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, model.NewConflictError("user")
		}
		return nil, fmt.Errorf("ユーザーの作成に失敗しました: %w", err)
	}
	s.tokens.Issued(refresh)

	accessToken, err := s.access.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	slog.Info("user signed up", slog.Int64("user_id", user.ID))
	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refresh.Token,
		User:         dto.ToUserResponse(user),
	}, nil
}

// checkAvailable はユーザー名とメールアドレスが未使用であることを確認する。
// 同時登録による競合はリポジトリのErrDuplicateで検出する。
func (s *Service) checkAvailable(ctx context.Context, username, email string) error {
	existing, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if existing != nil {
		return model.NewConflictError("username")
	}

	existing, err = s.users.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if existing != nil {
		return model.NewConflictError("email")
	}
	return nil
}

// Login はユーザー名とパスワードで認証する。
// ユーザーが存在しない場合とパスワードが一致しない場合を区別せずInvalidCredentialsを返す。
func (s *Service) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil || !s.hasher.Matches(req.Password, user.PasswordHash) {
		return nil, model.NewInvalidCredentialsError()
	}

	return s.authenticate(ctx, user)
}

// authenticate は新しいアクセストークンとリフレッシュトークンを発行する。
func (s *Service) authenticate(ctx context.Context, user *model.User) (*dto.AuthResponse, error) {
	accessToken, err := s.access.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefresh(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refresh.Token,
		User:         dto.ToUserResponse(user),
	}, nil
}

// Refresh はリフレッシュトークンを検証し、新しいアクセストークンを発行する。
// リフレッシュトークンはローテーションせず、同じ値を返す。
func (s *Service) Refresh(ctx context.Context, req dto.RefreshRequest) (*dto.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	refresh, err := s.tokens.Verify(ctx, req.RefreshToken, model.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, refresh.UserID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewInvalidTokenError()
	}

	accessToken, err := s.access.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refresh.Token,
		User:         dto.ToUserResponse(user),
	}, nil
}

// Logout はリフレッシュトークンを失効させる。
// 発行済みのアクセストークンは有効期限まで使える。
func (s *Service) Logout(ctx context.Context, req dto.RefreshRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	refresh, err := s.tokens.Verify(ctx, req.RefreshToken, model.TokenTypeRefresh)
	if err != nil {
		return err
	}
	return s.tokens.Consume(ctx, refresh)
}

// RequestPasswordReset はリセットトークンを発行し、登録メールアドレスへ1回だけ通知する。
// メールアドレスが未登録の場合はNotFoundを返す。
func (s *Service) RequestPasswordReset(ctx context.Context, req dto.PasswordResetRequest) error {
	req.Email = strings.TrimSpace(req.Email)
	if err := req.Validate(); err != nil {
		return err
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return model.NewNotFoundError("user", req.Email)
	}

	reset, err := s.tokens.IssuePasswordReset(ctx, user.ID)
	if err != nil {
		return err
	}

	if err := s.notifier.SendPasswordResetEmail(ctx, user.Email, reset.Token); err != nil {
		return fmt.Errorf("パスワードリセットメールの送信に失敗しました: %w", err)
	}

	slog.Info("password reset requested", slog.Int64("user_id", user.ID))
	return nil
}

// CompletePasswordReset はリセットトークンを検証し、トークンの消費とパスワードの更新を1つのトランザクションで行う。
// 同じトークンによる2回目以降の完了はInvalidTokenになる。
func (s *Service) CompletePasswordReset(ctx context.Context, req dto.PasswordResetComplete) error {
	if err := req.Validate(); err != nil {
		return err
	}

	reset, err := s.tokens.Verify(ctx, req.Token, model.TokenTypePasswordReset)
	if err != nil {
		return err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return err
	}
	if err := s.users.ResetPassword(ctx, reset.UserID, hash, reset.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.NewInvalidTokenError()
		}
		return fmt.Errorf("パスワードの更新に失敗しました: %w", err)
	}

	slog.Info("password reset completed", slog.Int64("user_id", reset.UserID))
	return nil
}
