package dto

import (
	"time"

	"github.com/hitoshi/taskboard/internal/model"
)

// UserResponse はユーザー情報のレスポンス。パスワードハッシュは含めない。
type UserResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthResponse はサインアップ、ログイン、トークン再発行のレスポンス。
type AuthResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         UserResponse `json:"user"`
}

// WorkspaceResponse はワークスペースのレスポンス。
type WorkspaceResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UserID      int64     `json:"userId"`
}

// ProjectResponse はプロジェクトのレスポンス。
type ProjectResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	WorkspaceID int64     `json:"workspaceId"`
}

// IssueResponse は課題のレスポンス。プロジェクト未設定の場合projectはnull。
type IssueResponse struct {
	ID          int64            `json:"id"`
	Title       string           `json:"title"`
	Description *string          `json:"description"`
	Priority    model.Priority   `json:"priority"`
	Status      model.Status     `json:"status"`
	CreatedAt   time.Time        `json:"createdAt"`
	WorkspaceID int64            `json:"workspaceId"`
	Project     *ProjectResponse `json:"project"`
}

// ProjectPage はページング付きのプロジェクト一覧。
// ページング指定がない場合は全件をPage=0、Size=全件数で返す。
type ProjectPage struct {
	Items      []ProjectResponse `json:"items"`
	Page       int               `json:"page"`
	Size       int               `json:"size"`
	Total      int64             `json:"total"`
	TotalPages int               `json:"totalPages"`
}

func ToUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func ToWorkspaceResponse(ws *model.Workspace) WorkspaceResponse {
	return WorkspaceResponse{
		ID:          ws.ID,
		Name:        ws.Name,
		Description: ws.Description,
		CreatedAt:   ws.CreatedAt,
		UserID:      ws.UserID,
	}
}

// ToWorkspaceResponses は空の入力に対して空のスライスを返す（JSONではnullではなく[]になる）。
func ToWorkspaceResponses(list []*model.Workspace) []WorkspaceResponse {
	out := make([]WorkspaceResponse, 0, len(list))
	for _, ws := range list {
		out = append(out, ToWorkspaceResponse(ws))
	}
	return out
}

func ToProjectResponse(p *model.Project) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		WorkspaceID: p.WorkspaceID,
	}
}

func ToProjectResponses(list []*model.Project) []ProjectResponse {
	out := make([]ProjectResponse, 0, len(list))
	for _, p := range list {
		out = append(out, ToProjectResponse(p))
	}
	return out
}

func ToIssueResponse(i *model.Issue) IssueResponse {
	resp := IssueResponse{
		ID:          i.ID,
		Title:       i.Title,
		Description: i.Description,
		Priority:    i.Priority,
		Status:      i.Status,
		CreatedAt:   i.CreatedAt,
		WorkspaceID: i.WorkspaceID,
	}
	if i.ProjectID != nil && i.Project != nil {
		p := ToProjectResponse(i.Project)
		resp.Project = &p
	}
	return resp
}

func ToIssueResponses(list []*model.Issue) []IssueResponse {
	out := make([]IssueResponse, 0, len(list))
	for _, i := range list {
		out = append(out, ToIssueResponse(i))
	}
	return out
}
