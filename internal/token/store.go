// Package token はリフレッシュトークン、パスワードリセットトークンの発行・検証・失効を提供する。
package token

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/taskboard/internal/metrics"
	"github.com/hitoshi/taskboard/internal/model"
	"github.com/hitoshi/taskboard/internal/repository"
)

// Store は不透明トークンのライフサイクルを管理する。
// 検証のたびにリポジトリを参照し、メモリ上にはキャッシュしない。
type Store struct {
	repo       repository.TokenRepository
	metrics    metrics.MetricsCollector
	now        func() time.Time
	refreshTTL time.Duration
	resetTTL   time.Duration
}

// Option はStoreの設定オプション。
type Option func(*Store)

// WithClock は現在時刻の取得関数を差し替える。テスト用。
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithMetrics はメトリクス記録先を設定する。
func WithMetrics(m metrics.MetricsCollector) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

// NewStore はStoreを生成する。
func NewStore(repo repository.TokenRepository, refreshTTL, resetTTL time.Duration, opts ...Option) *Store {
	s := &Store{
		repo:       repo,
		metrics:    metrics.Nop{},
		now:        time.Now,
		refreshTTL: refreshTTL,
		resetTTL:   resetTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue はユーザーに種別kindのトークンを発行し、有効期限now+ttlで保存する。
func (s *Store) Issue(ctx context.Context, userID int64, kind model.TokenType, ttl time.Duration) (*model.Token, error) {
	t := s.prepare(userID, kind, ttl)
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("トークンの保存に失敗しました: %w", err)
	}
	s.Issued(t)
	return t, nil
}

func (s *Store) prepare(userID int64, kind model.TokenType, ttl time.Duration) *model.Token {
	return &model.Token{
		Token:      uuid.NewString(),
		Type:       kind,
		UserID:     userID,
		ExpiryDate: s.now().Add(ttl),
	}
}

// NewRefresh は保存前のリフレッシュトークンを生成する。
// ユーザー作成と同じトランザクションで保存する場合に使い、保存後にIssuedを呼ぶ。
func (s *Store) NewRefresh(userID int64) *model.Token {
	return s.prepare(userID, model.TokenTypeRefresh, s.refreshTTL)
}

// Issued は呼び出し側で保存したトークンの発行を記録する。
func (s *Store) Issued(t *model.Token) {
	s.metrics.RecordTokenIssued(string(t.Type))
}

// IssueRefresh は設定済みの有効期間でリフレッシュトークンを発行する。
func (s *Store) IssueRefresh(ctx context.Context, userID int64) (*model.Token, error) {
	return s.Issue(ctx, userID, model.TokenTypeRefresh, s.refreshTTL)
}

// IssuePasswordReset は設定済みの有効期間でパスワードリセットトークンを発行する。
func (s *Store) IssuePasswordReset(ctx context.Context, userID int64) (*model.Token, error) {
	return s.Issue(ctx, userID, model.TokenTypePasswordReset, s.resetTTL)
}

// Verify はトークン文字列と種別でトークンを検証する。
// 見つからない場合はInvalidToken、期限切れの場合は行を削除してExpiredTokenを返す。
// 有効なトークンは削除しない。
func (s *Store) Verify(ctx context.Context, tokenString string, kind model.TokenType) (*model.Token, error) {
	if tokenString == "" {
		s.metrics.RecordTokenVerification(string(kind), metrics.OutcomeInvalid)
		return nil, model.NewInvalidTokenError()
	}

	t, err := s.repo.FindByTokenAndType(ctx, tokenString, kind)
	if err != nil {
		return nil, fmt.Errorf("トークンの取得に失敗しました: %w", err)
	}
	if t == nil {
		s.metrics.RecordTokenVerification(string(kind), metrics.OutcomeInvalid)
		return nil, model.NewInvalidTokenError()
	}

	if t.Expired(s.now()) {
		// 同時に削除された場合もExpiredTokenとして扱う
		if err := s.repo.DeleteByID(ctx, t.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("期限切れトークンの削除に失敗しました: %w", err)
		}
		s.metrics.RecordTokenVerification(string(kind), metrics.OutcomeExpired)
		return nil, model.NewExpiredTokenError()
	}

	s.metrics.RecordTokenVerification(string(kind), metrics.OutcomeValid)
	return t, nil
}

// Consume はトークンを削除する。ログアウト時に使う。
// 既に消費済みの場合はInvalidTokenを返すため、同じトークンで成功するのは1回だけになる。
func (s *Store) Consume(ctx context.Context, t *model.Token) error {
	if err := s.repo.DeleteByID(ctx, t.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.NewInvalidTokenError()
		}
		return fmt.Errorf("トークンの削除に失敗しました: %w", err)
	}
	return nil
}

// Sweep は有効期限がnow以前の全トークンを削除し、削除件数を返す。
// 期限切れのトークンは検証に通らないため、リクエスト処理と並行して実行してよい。
func (s *Store) Sweep(ctx context.Context, now time.Time) (int64, error) {
	n, err := s.repo.DeleteExpired(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("期限切れトークンの一括削除に失敗しました: %w", err)
	}
	s.metrics.RecordTokensSwept(n)
	if n > 0 {
		slog.Info("expired tokens swept", slog.Int64("count", n))
	}
	return n, nil
}
