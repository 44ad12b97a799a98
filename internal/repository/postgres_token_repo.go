package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hitoshi/taskboard/internal/model"
)

// PostgresTokenRepo はPostgreSQLを使用したトークンリポジトリ。
type PostgresTokenRepo struct {
	db *sql.DB
}

// NewPostgresTokenRepo はPostgresTokenRepoを生成する。
func NewPostgresTokenRepo(db *sql.DB) *PostgresTokenRepo {
	return &PostgresTokenRepo{db: db}
}

// Create はトークンを保存する。
func (r *PostgresTokenRepo) Create(ctx context.Context, token *model.Token) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO tokens (token, type, user_id, expiry_date)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		token.Token, string(token.Type), token.UserID, token.ExpiryDate,
	).Scan(&token.ID)
	if err != nil {
		return wrapWriteError("failed to create token", err)
	}
	return nil
}

// FindByTokenAndType はトークン文字列と種別で検索する。見つからない場合はnilを返す。
// 期限切れのトークンもそのまま返す。期限の判定は呼び出し側で行う。
func (r *PostgresTokenRepo) FindByTokenAndType(ctx context.Context, token string, tokenType model.TokenType) (*model.Token, error) {
	t := &model.Token{}
	var typ string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, token, type, user_id, expiry_date
		 FROM tokens
		 WHERE token = $1 AND type = $2`,
		token, string(tokenType),
	).Scan(&t.ID, &t.Token, &typ, &t.UserID, &t.ExpiryDate)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find token: %w", err)
	}
	t.Type = model.TokenType(typ)
	return t, nil
}

// DeleteByID は指定IDのトークンを削除する。
// 行が存在しない場合（既に消費済みの場合を含む）はErrNotFoundを返す。
func (r *PostgresTokenRepo) DeleteByID(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM tokens WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return requireOneRow(result, "failed to delete token")
}

// DeleteExpired は有効期限がnow以前の全トークンを削除し、削除件数を返す。
func (r *PostgresTokenRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM tokens WHERE expiry_date <= $1`,
		now,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired tokens: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

// compile-time interface check
var _ TokenRepository = (*PostgresTokenRepo)(nil)
