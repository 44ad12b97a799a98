package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hitoshi/taskboard/internal/model"
)

// PostgresWorkspaceRepo はPostgreSQLを使用したワークスペースリポジトリ。
type PostgresWorkspaceRepo struct {
	db *sql.DB
}

// NewPostgresWorkspaceRepo はPostgresWorkspaceRepoを生成する。
func NewPostgresWorkspaceRepo(db *sql.DB) *PostgresWorkspaceRepo {
	return &PostgresWorkspaceRepo{db: db}
}

func scanWorkspace(row rowScanner) (*model.Workspace, error) {
	ws := &model.Workspace{}
	var desc sql.NullString
	if err := row.Scan(&ws.ID, &ws.Name, &desc, &ws.CreatedAt, &ws.UserID); err != nil {
		return nil, err
	}
	ws.Description = stringPtr(desc)
	return ws, nil
}

// FindByID は指定IDのワークスペースを取得する。見つからない場合はnilを返す。
func (r *PostgresWorkspaceRepo) FindByID(ctx context.Context, id int64) (*model.Workspace, error) {
	ws, err := scanWorkspace(r.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_at, user_id FROM workspaces WHERE id = $1`,
		id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find workspace by ID: %w", err)
	}
	return ws, nil
}

// ListByUserID はユーザーが所有するワークスペースを作成日時の降順で返す。
func (r *PostgresWorkspaceRepo) ListByUserID(ctx context.Context, userID int64) ([]*model.Workspace, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, created_at, user_id
		 FROM workspaces
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	defer rows.Close()

	workspaces := []*model.Workspace{}
	for rows.Next() {
		ws, err := scanWorkspace(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workspace: %w", err)
		}
		workspaces = append(workspaces, ws)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate workspaces: %w", err)
	}
	return workspaces, nil
}

// Create はワークスペースを作成する。
func (r *PostgresWorkspaceRepo) Create(ctx context.Context, ws *model.Workspace) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO workspaces (name, description, user_id)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		ws.Name, nullString(ws.Description), ws.UserID,
	).Scan(&ws.ID, &ws.CreatedAt)
	if err != nil {
		return wrapWriteError("failed to insert workspace", err)
	}
	return nil
}

// Update は名前と説明を更新する。
func (r *PostgresWorkspaceRepo) Update(ctx context.Context, ws *model.Workspace) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE workspaces SET name = $2, description = $3 WHERE id = $1`,
		ws.ID, ws.Name, nullString(ws.Description),
	)
	if err != nil {
		return wrapWriteError("failed to update workspace", err)
	}
	return nil
}

// Delete は指定IDのワークスペースを削除する。
func (r *PostgresWorkspaceRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM workspaces WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete workspace: %w", err)
	}
	return nil
}

// compile-time interface check
var _ WorkspaceRepository = (*PostgresWorkspaceRepo)(nil)
