package dto

import "github.com/hitoshi/taskboard/internal/model"

// SignupRequest はユーザー登録リクエスト。
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *SignupRequest) Validate() error {
	var e fieldErrors
	if e.required("Username", r.Username) {
		e.maxLen("Username", r.Username, MaxUsernameLength)
	}
	if e.required("Email", r.Email) {
		e.email("Email", r.Email)
	}
	if e.required("Password", r.Password) {
		e.password("Password", r.Password)
	}
	return e.err()
}

// LoginRequest はユーザー名とパスワードによるログインリクエスト。
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var e fieldErrors
	e.required("Username", r.Username)
	e.required("Password", r.Password)
	return e.err()
}

// RefreshRequest はアクセストークン再発行およびログアウトのリクエスト。
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (r *RefreshRequest) Validate() error {
	var e fieldErrors
	e.required("Refresh token", r.RefreshToken)
	return e.err()
}

// PasswordResetRequest はパスワードリセットメール送信のリクエスト。
type PasswordResetRequest struct {
	Email string `json:"email"`
}

func (r *PasswordResetRequest) Validate() error {
	var e fieldErrors
	if e.required("Email", r.Email) {
		e.email("Email", r.Email)
	}
	return e.err()
}

// PasswordResetComplete はリセットトークンによる新パスワード設定のリクエスト。
type PasswordResetComplete struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (r *PasswordResetComplete) Validate() error {
	var e fieldErrors
	e.required("Token", r.Token)
	if e.required("Password", r.Password) {
		e.password("Password", r.Password)
	}
	return e.err()
}

// PasswordChange はログイン中のユーザーのパスワード変更リクエスト。
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (r *PasswordChange) Validate() error {
	var e fieldErrors
	e.required("Current password", r.CurrentPassword)
	if e.required("New password", r.NewPassword) {
		e.password("New password", r.NewPassword)
	}
	return e.err()
}

// WorkspaceCreate はワークスペース作成リクエスト。
type WorkspaceCreate struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func (r *WorkspaceCreate) Validate() error {
	var e fieldErrors
	if e.required("Name", r.Name) {
		e.maxLen("Name", r.Name, MaxNameLength)
	}
	e.maxLenPtr("Description", r.Description, MaxDescriptionLength)
	return e.err()
}

// ProjectCreate はプロジェクト作成リクエスト。
type ProjectCreate struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func (r *ProjectCreate) Validate() error {
	var e fieldErrors
	if e.required("Name", r.Name) {
		e.maxLen("Name", r.Name, MaxNameLength)
	}
	e.maxLenPtr("Description", r.Description, MaxDescriptionLength)
	return e.err()
}

// IssueCreate は課題作成リクエスト。
// Priority、Statusが空の場合はNONE、BACKLOGになる。
// ProjectIDがnilまたはNoProjectIDの場合はプロジェクトなしで作成する。
type IssueCreate struct {
	Title       string         `json:"title"`
	Description *string        `json:"description"`
	Priority    model.Priority `json:"priority"`
	Status      model.Status   `json:"status"`
	ProjectID   *int64         `json:"projectId"`
}

func (r *IssueCreate) Validate() error {
	var e fieldErrors
	if e.required("Title", r.Title) {
		e.maxLen("Title", r.Title, MaxTitleLength)
	}
	e.maxLenPtr("Description", r.Description, MaxIssueDescLength)
	if r.Priority != "" {
		e.priority(r.Priority)
	}
	if r.Status != "" {
		e.status(r.Status)
	}
	if r.ProjectID != nil && *r.ProjectID <= 0 && *r.ProjectID != model.NoProjectID {
		e.add("projectId must be a positive id or %d", model.NoProjectID)
	}
	return e.err()
}

// NewIssue はリクエストからワークスペースworkspaceIDの課題を組み立てる。
// プロジェクトの所属確認は呼び出し側で行う。
func (r *IssueCreate) NewIssue(workspaceID int64) *model.Issue {
	issue := &model.Issue{
		Title:       r.Title,
		Description: r.Description,
		Priority:    r.Priority,
		Status:      r.Status,
		WorkspaceID: workspaceID,
	}
	if issue.Priority == "" {
		issue.Priority = model.PriorityNone
	}
	if issue.Status == "" {
		issue.Status = model.StatusBacklog
	}
	if r.ProjectID != nil && *r.ProjectID != model.NoProjectID {
		id := *r.ProjectID
		issue.ProjectID = &id
	}
	return issue
}
