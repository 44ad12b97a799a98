package dto

import "github.com/hitoshi/taskboard/internal/model"

// 更新リクエストは全フィールドをOptionalで受け取り、指定されたフィールドだけを上書きする。
// 必須フィールド（名前、タイトル、ユーザー名）にnullや空文字列を指定した場合は検証エラーになる。
// 任意フィールド（説明）にnullを指定した場合は値を削除する。

// WorkspaceUpdate はワークスペース更新リクエスト。
type WorkspaceUpdate struct {
	Name        Optional[string] `json:"name"`
	Description Optional[string] `json:"description"`
}

func (u *WorkspaceUpdate) Validate() error {
	var e fieldErrors
	requiredIfSet(&e, "Name", u.Name, MaxNameLength)
	optionalMax(&e, "Description", u.Description, MaxDescriptionLength)
	return e.err()
}

// ApplyTo は指定されたフィールドをwsに上書きする。
func (u *WorkspaceUpdate) ApplyTo(ws *model.Workspace) {
	if u.Name.Present() {
		ws.Name = u.Name.Value
	}
	applyNullable(&ws.Description, u.Description)
}

// ProjectUpdate はプロジェクト更新リクエスト。
type ProjectUpdate struct {
	Name        Optional[string] `json:"name"`
	Description Optional[string] `json:"description"`
}

func (u *ProjectUpdate) Validate() error {
	var e fieldErrors
	requiredIfSet(&e, "Name", u.Name, MaxNameLength)
	optionalMax(&e, "Description", u.Description, MaxDescriptionLength)
	return e.err()
}

// ApplyTo は指定されたフィールドをpに上書きする。
func (u *ProjectUpdate) ApplyTo(p *model.Project) {
	if u.Name.Present() {
		p.Name = u.Name.Value
	}
	applyNullable(&p.Description, u.Description)
}

// ProjectChangeKind は課題更新時のプロジェクト変更の種類。
type ProjectChangeKind int

const (
	// ProjectKeep はprojectIdが省略された場合。現在の値を維持する。
	ProjectKeep ProjectChangeKind = iota
	// ProjectClear はprojectIdにnullまたはNoProjectIDが指定された場合。プロジェクトを解除する。
	ProjectClear
	// ProjectAssign は実在するプロジェクトIDが指定された場合。
	ProjectAssign
)

// IssueUpdate は課題更新リクエスト。
type IssueUpdate struct {
	Title       Optional[string]         `json:"title"`
	Description Optional[string]         `json:"description"`
	Priority    Optional[model.Priority] `json:"priority"`
	Status      Optional[model.Status]   `json:"status"`
	ProjectID   Optional[int64]          `json:"projectId"`
}

func (u *IssueUpdate) Validate() error {
	var e fieldErrors
	requiredIfSet(&e, "Title", u.Title, MaxTitleLength)
	optionalMax(&e, "Description", u.Description, MaxIssueDescLength)
	if u.Priority.Set {
		if u.Priority.Null {
			e.add("priority cannot be null")
		} else {
			e.priority(u.Priority.Value)
		}
	}
	if u.Status.Set {
		if u.Status.Null {
			e.add("status cannot be null")
		} else {
			e.status(u.Status.Value)
		}
	}
	if u.ProjectID.Present() && u.ProjectID.Value <= 0 && u.ProjectID.Value != model.NoProjectID {
		e.add("projectId must be a positive id or %d", model.NoProjectID)
	}
	return e.err()
}

// ProjectChange はprojectIdの指定内容を返す。ProjectAssignの場合のみidが意味を持つ。
func (u *IssueUpdate) ProjectChange() (ProjectChangeKind, int64) {
	switch {
	case !u.ProjectID.Set:
		return ProjectKeep, 0
	case u.ProjectID.Null, u.ProjectID.Value == model.NoProjectID:
		return ProjectClear, 0
	default:
		return ProjectAssign, u.ProjectID.Value
	}
}

// ApplyTo は指定されたフィールドをissueに上書きする。
// プロジェクトを割り当てる場合、所属確認済みのprojectを渡す。解除と維持の場合はnilでよい。
func (u *IssueUpdate) ApplyTo(issue *model.Issue, project *model.Project) {
	if u.Title.Present() {
		issue.Title = u.Title.Value
	}
	applyNullable(&issue.Description, u.Description)
	if u.Priority.Present() {
		issue.Priority = u.Priority.Value
	}
	if u.Status.Present() {
		issue.Status = u.Status.Value
	}

	switch kind, id := u.ProjectChange(); kind {
	case ProjectClear:
		issue.ProjectID = nil
		issue.Project = nil
	case ProjectAssign:
		issue.ProjectID = &id
		issue.Project = project
	}
}

// UserUpdate はプロフィール更新リクエスト。
type UserUpdate struct {
	Username Optional[string] `json:"username"`
	Email    Optional[string] `json:"email"`
}

func (u *UserUpdate) Validate() error {
	var e fieldErrors
	requiredIfSet(&e, "Username", u.Username, MaxUsernameLength)
	if u.Email.Set {
		if u.Email.Null {
			e.add("Email cannot be empty")
		} else {
			e.email("Email", u.Email.Value)
		}
	}
	return e.err()
}

// ApplyTo は指定されたフィールドをuserに上書きする。
func (u *UserUpdate) ApplyTo(user *model.User) {
	if u.Username.Present() {
		user.Username = u.Username.Value
	}
	if u.Email.Present() {
		user.Email = u.Email.Value
	}
}

// requiredIfSet は指定された場合のみ、空でないことと最大長を検証する。
func requiredIfSet(e *fieldErrors, field string, v Optional[string], limit int) {
	if !v.Set {
		return
	}
	if v.Null {
		e.add("%s cannot be empty", field)
		return
	}
	if e.required(field, v.Value) {
		e.maxLen(field, v.Value, limit)
	}
}

func optionalMax(e *fieldErrors, field string, v Optional[string], limit int) {
	if v.Present() {
		e.maxLen(field, v.Value, limit)
	}
}

func applyNullable(dst **string, v Optional[string]) {
	switch {
	case !v.Set:
	case v.Null:
		*dst = nil
	default:
		s := v.Value
		*dst = &s
	}
}
