package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/hitoshi/taskboard/internal/model"
)

// IssueColumns は課題の取得で使うSELECT句の並び。
// issues を i、projects を p の別名でLEFT JOINする前提。
var IssueColumns = []string{
	"i.id", "i.title", "i.description", "i.priority", "i.status", "i.created_at",
	"i.workspace_id", "i.project_id",
	"p.name", "p.description", "p.created_at",
}

// IssueFrom はIssueColumnsに対応するFROM句。
const IssueFrom = "issues i"

// IssueProjectJoin はIssueColumnsに対応するLEFT JOIN句。
const IssueProjectJoin = "projects p ON p.id = i.project_id"

// PostgresIssueRepo はPostgreSQLを使用した課題リポジトリ。
type PostgresIssueRepo struct {
	db *sql.DB
}

// NewPostgresIssueRepo はPostgresIssueRepoを生成する。
func NewPostgresIssueRepo(db *sql.DB) *PostgresIssueRepo {
	return &PostgresIssueRepo{db: db}
}

// scanIssue はIssueColumnsの並びで1行を読み取る。
// project_idがNULLでない場合は所属プロジェクトも組み立てる。
func scanIssue(row rowScanner) (*model.Issue, error) {
	issue := &model.Issue{}
	var (
		desc        sql.NullString
		priority    string
		status      string
		projectID   sql.NullInt64
		projectName sql.NullString
		projectDesc sql.NullString
		projectAt   sql.NullTime
	)
	err := row.Scan(
		&issue.ID, &issue.Title, &desc, &priority, &status, &issue.CreatedAt,
		&issue.WorkspaceID, &projectID,
		&projectName, &projectDesc, &projectAt,
	)
	if err != nil {
		return nil, err
	}

	issue.Description = stringPtr(desc)
	issue.Priority = model.Priority(priority)
	issue.Status = model.Status(status)
	issue.ProjectID = int64Ptr(projectID)
	if projectID.Valid {
		issue.Project = &model.Project{
			ID:          projectID.Int64,
			Name:        projectName.String,
			Description: stringPtr(projectDesc),
			CreatedAt:   timeOrZero(projectAt),
			WorkspaceID: issue.WorkspaceID,
		}
	}
	return issue, nil
}

// FindByID は指定IDの課題を所属プロジェクト付きで取得する。見つからない場合はnilを返す。
func (r *PostgresIssueRepo) FindByID(ctx context.Context, id int64) (*model.Issue, error) {
	issue, err := scanIssue(r.db.QueryRowContext(ctx,
		`SELECT `+strings.Join(IssueColumns, ", ")+
			` FROM `+IssueFrom+` LEFT JOIN `+IssueProjectJoin+
			` WHERE i.id = $1`,
		id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find issue by ID: %w", err)
	}
	return issue, nil
}

// ListByQuery は組み立て済みのSELECT文を実行し、結果を順序どおりに返す。
func (r *PostgresIssueRepo) ListByQuery(ctx context.Context, query string, args []any) ([]*model.Issue, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query issues: %w", err)
	}
	defer rows.Close()

	issues := []*model.Issue{}
	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan issue: %w", err)
		}
		issues = append(issues, issue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate issues: %w", err)
	}
	return issues, nil
}

// Create は課題を作成する。
func (r *PostgresIssueRepo) Create(ctx context.Context, issue *model.Issue) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO issues (title, description, priority, status, workspace_id, project_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		issue.Title, nullString(issue.Description), string(issue.Priority), string(issue.Status),
		issue.WorkspaceID, nullInt64(issue.ProjectID),
	).Scan(&issue.ID, &issue.CreatedAt)
	if err != nil {
		return wrapWriteError("failed to insert issue", err)
	}
	return nil
}

// Update は課題の全フィールドを上書きする。
func (r *PostgresIssueRepo) Update(ctx context.Context, issue *model.Issue) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE issues
		 SET title = $2, description = $3, priority = $4, status = $5, project_id = $6
		 WHERE id = $1`,
		issue.ID, issue.Title, nullString(issue.Description), string(issue.Priority), string(issue.Status),
		nullInt64(issue.ProjectID),
	)
	if err != nil {
		return wrapWriteError("failed to update issue", err)
	}
	return nil
}

// Delete は指定IDの課題を削除する。
func (r *PostgresIssueRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM issues WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete issue: %w", err)
	}
	return nil
}

// compile-time interface check
var _ IssueRepository = (*PostgresIssueRepo)(nil)
