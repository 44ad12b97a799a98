// Package repository はデータ永続化のインターフェースとPostgreSQL実装を提供する。
package repository

import (
	"context"
	"time"

	"github.com/hitoshi/taskboard/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.User, error)
	// FindByUsername はユーザー名でユーザーを取得する。見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	// FindByEmail はメールアドレスでユーザーを取得する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Create はユーザーを作成し、採番されたIDと作成日時をuserに設定する。
	// username、emailが重複する場合はErrDuplicateを返す。
	Create(ctx context.Context, user *model.User) error
	// Update はユーザー名とメールアドレスを更新する。
	Update(ctx context.Context, user *model.User) error
	// UpdatePassword はパスワードハッシュを更新する。
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	// CreateWithToken はユーザーとそのトークンを同一トランザクションで作成する。
	// token.UserIDには採番されたユーザーIDが設定される。
	CreateWithToken(ctx context.Context, user *model.User, token *model.Token) error
	// ResetPassword はトークンtokenIDの削除とパスワードの更新を同一トランザクションで行う。
	// トークンが既に削除されている場合はErrNotFoundを返し、パスワードは変更しない。
	ResetPassword(ctx context.Context, userID int64, passwordHash string, tokenID int64) error

	// DeleteByID は指定IDのユーザーを削除する。
	// 関連するworkspaces、projects、issues、tokensはCASCADE削除される。
	DeleteByID(ctx context.Context, id int64) error
}

// WorkspaceRepository はワークスペースの永続化インターフェース。
type WorkspaceRepository interface {
	// FindByID は指定IDのワークスペースを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.Workspace, error)
	// ListByUserID はユーザーが所有するワークスペースを作成日時の降順で返す。
	ListByUserID(ctx context.Context, userID int64) ([]*model.Workspace, error)
	// Create はワークスペースを作成し、採番されたIDと作成日時を設定する。
	Create(ctx context.Context, ws *model.Workspace) error
	// Update は名前と説明を更新する。
	Update(ctx context.Context, ws *model.Workspace) error
	// Delete は指定IDのワークスペースを削除する。配下のprojects、issuesはCASCADE削除される。
	Delete(ctx context.Context, id int64) error
}

// ProjectListParams はプロジェクト一覧取得の並び順とページング条件。
// Limitが0の場合はページングしない。
type ProjectListParams struct {
	SortBy    string // "name" または "createdAt"
	SortOrder string // "asc" または "desc"
	Limit     uint64
	Offset    uint64
}

// ProjectRepository はプロジェクトの永続化インターフェース。
type ProjectRepository interface {
	// FindByID は指定IDのプロジェクトを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.Project, error)
	// List はワークスペースのプロジェクト一覧を返す。
	List(ctx context.Context, workspaceID int64, params ProjectListParams) ([]*model.Project, error)
	// Count はワークスペースのプロジェクト数を返す。
	Count(ctx context.Context, workspaceID int64) (int64, error)
	// Create はプロジェクトを作成し、採番されたIDと作成日時を設定する。
	Create(ctx context.Context, project *model.Project) error
	// Update は名前と説明を更新する。
	Update(ctx context.Context, project *model.Project) error
	// Delete は指定IDのプロジェクトを削除する。所属していた課題のproject_idはNULLになる。
	Delete(ctx context.Context, id int64) error
}

// IssueRepository は課題の永続化インターフェース。
type IssueRepository interface {
	// FindByID は指定IDの課題を所属プロジェクト付きで取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.Issue, error)
	// ListByQuery は組み立て済みのSELECT文を実行する。
	// SELECT句はIssueColumnsと同じ並びである必要がある。
	ListByQuery(ctx context.Context, query string, args []any) ([]*model.Issue, error)
	// Create は課題を作成し、採番されたIDと作成日時を設定する。
	Create(ctx context.Context, issue *model.Issue) error
	// Update は課題の全フィールドを上書きする。
	Update(ctx context.Context, issue *model.Issue) error
	// Delete は指定IDの課題を削除する。
	Delete(ctx context.Context, id int64) error
}

// TokenRepository はリフレッシュトークン、パスワードリセットトークンの永続化インターフェース。
type TokenRepository interface {
	// Create はトークンを保存し、採番されたIDを設定する。
	Create(ctx context.Context, token *model.Token) error
	// FindByTokenAndType はトークン文字列と種別で検索する。見つからない場合はnilを返す。
	FindByTokenAndType(ctx context.Context, token string, tokenType model.TokenType) (*model.Token, error)
	// DeleteByID は指定IDのトークンを削除する。存在しない場合はErrNotFoundを返す。
	DeleteByID(ctx context.Context, id int64) error
	// DeleteExpired は有効期限がnow以前の全トークンを削除し、削除件数を返す。
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
