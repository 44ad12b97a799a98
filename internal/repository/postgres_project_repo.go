package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/hitoshi/taskboard/internal/model"
)

// PostgresProjectRepo はPostgreSQLを使用したプロジェクトリポジトリ。
type PostgresProjectRepo struct {
	db *sql.DB
}

// NewPostgresProjectRepo はPostgresProjectRepoを生成する。
func NewPostgresProjectRepo(db *sql.DB) *PostgresProjectRepo {
	return &PostgresProjectRepo{db: db}
}

var projectColumns = []string{"id", "name", "description", "created_at", "workspace_id"}

func scanProject(row rowScanner) (*model.Project, error) {
	p := &model.Project{}
	var desc sql.NullString
	if err := row.Scan(&p.ID, &p.Name, &desc, &p.CreatedAt, &p.WorkspaceID); err != nil {
		return nil, err
	}
	p.Description = stringPtr(desc)
	return p, nil
}

// buildProjectListQuery はプロジェクト一覧のSELECT文を組み立てる。
// 未知のソートキーは作成日時、未知の順序は降順として扱う。
func buildProjectListQuery(workspaceID int64, params ProjectListParams) (string, []any, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	column := "created_at"
	if params.SortBy == "name" {
		column = "name"
	}
	direction := "DESC"
	if strings.EqualFold(params.SortOrder, "asc") {
		direction = "ASC"
	}

	sb := psql.Select(projectColumns...).
		From("projects").
		Where(sq.Eq{"workspace_id": workspaceID}).
		OrderBy(column+" "+direction, "id "+direction)

	if params.Limit > 0 {
		sb = sb.Limit(params.Limit).Offset(params.Offset)
	}

	return sb.ToSql()
}

// FindByID は指定IDのプロジェクトを取得する。見つからない場合はnilを返す。
func (r *PostgresProjectRepo) FindByID(ctx context.Context, id int64) (*model.Project, error) {
	p, err := scanProject(r.db.QueryRowContext(ctx,
		`SELECT `+strings.Join(projectColumns, ", ")+` FROM projects WHERE id = $1`,
		id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find project by ID: %w", err)
	}
	return p, nil
}

// List はワークスペースのプロジェクト一覧を返す。
func (r *PostgresProjectRepo) List(ctx context.Context, workspaceID int64, params ProjectListParams) ([]*model.Project, error) {
	query, args, err := buildProjectListQuery(workspaceID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to build project list query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []*model.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}
	return projects, nil
}

// Count はワークスペースのプロジェクト数を返す。
func (r *PostgresProjectRepo) Count(ctx context.Context, workspaceID int64) (int64, error) {
	query, args, err := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select("count(*)").
		From("projects").
		Where(sq.Eq{"workspace_id": workspaceID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build project count query: %w", err)
	}

	var count int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count projects: %w", err)
	}
	return count, nil
}

// Create はプロジェクトを作成する。
func (r *PostgresProjectRepo) Create(ctx context.Context, p *model.Project) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO projects (name, description, workspace_id)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		p.Name, nullString(p.Description), p.WorkspaceID,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return wrapWriteError("failed to insert project", err)
	}
	return nil
}

// Update は名前と説明を更新する。
func (r *PostgresProjectRepo) Update(ctx context.Context, p *model.Project) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE projects SET name = $2, description = $3 WHERE id = $1`,
		p.ID, p.Name, nullString(p.Description),
	)
	if err != nil {
		return wrapWriteError("failed to update project", err)
	}
	return nil
}

// Delete は指定IDのプロジェクトを削除する。
func (r *PostgresProjectRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// compile-time interface check
var _ ProjectRepository = (*PostgresProjectRepo)(nil)
