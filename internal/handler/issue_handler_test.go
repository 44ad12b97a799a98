package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hitoshi/taskboard/internal/dto"
	"github.com/hitoshi/taskboard/internal/issue"
	"github.com/hitoshi/taskboard/internal/model"
)

func TestParseFilter(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    issue.Filter
		wantErr bool
	}{
		{
			name:  "指定なし",
			query: "",
			want:  issue.Filter{},
		},
		{
			name:  "繰り返し指定",
			query: "statuses=TO_DO&statuses=DONE&priorities=HIGH",
			want: issue.Filter{
				Statuses:   []model.Status{model.StatusToDo, model.StatusDone},
				Priorities: []model.Priority{model.PriorityHigh},
			},
		},
		{
			name:  "カンマ区切り",
			query: "projectIds=3,-1&statuses=BACKLOG,+IN_PROGRESS",
			want: issue.Filter{
				ProjectIDs: []int64{3, model.NoProjectID},
				Statuses:   []model.Status{model.StatusBacklog, model.StatusInProgress},
			},
		},
		{
			name:  "並び替えとグルーピング",
			query: "sortBy=priority&sortOrder=asc&groupBy=project",
			want:  issue.Filter{SortBy: "priority", SortOrder: "asc", GroupBy: "project"},
		},
		{name: "未知のステータス", query: "statuses=OPEN", wantErr: true},
		{name: "未知の優先度", query: "priorities=URGENT", wantErr: true},
		{name: "数値でないプロジェクトID", query: "projectIds=abc", wantErr: true},
		{name: "番兵以外の負のプロジェクトID", query: "projectIds=-2", wantErr: true},
		{name: "未知の並び替えキー", query: "sortBy=assignee", wantErr: true},
		{name: "未知のグルーピングキー", query: "groupBy=owner", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/workspaces/1/issues?"+tt.query, nil)

			got, err := parseFilter(req)
			if tt.wantErr {
				if code := model.ErrorCode(err); code != model.ErrCodeValidationFailed {
					t.Fatalf("code = %q, want %q", code, model.ErrCodeValidationFailed)
				}
				return
			}
			if err != nil {
				t.Fatalf("予期しないエラー: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Filter mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestIssueHandler_List_GroupsAsObject(t *testing.T) {
	h := NewIssueHandler(&mockIssueService{
		listFn: func(ctx context.Context, principal, workspaceID int64, filter issue.Filter) (map[string][]dto.IssueResponse, error) {
			return map[string][]dto.IssueResponse{
				"TO_DO": {{ID: 1, Title: "a", Status: model.StatusToDo, WorkspaceID: workspaceID}},
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/workspaces/10/issues", nil)
	req = withUserID(withChiURLParams(req, "workspaceId", "10"), 1)
	w := httptest.NewRecorder()

	h.List(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var groups map[string][]dto.IssueResponse
	decodeData(t, decodeEnvelope(t, w), &groups)
	if len(groups) != 1 || len(groups["TO_DO"]) != 1 || groups["TO_DO"][0].Project != nil {
		t.Errorf("グループが不正: %+v", groups)
	}
}

func TestIssueHandler_List_EmptyIsObject(t *testing.T) {
	h := NewIssueHandler(&mockIssueService{
		listFn: func(context.Context, int64, int64, issue.Filter) (map[string][]dto.IssueResponse, error) {
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/workspaces/10/issues", nil)
	req = withUserID(withChiURLParams(req, "workspaceId", "10"), 1)
	w := httptest.NewRecorder()

	h.List(w, req)

	if env := decodeEnvelope(t, w); string(env.Data) != "{}" {
		t.Errorf("data = %s, want {}", env.Data)
	}
}

func TestIssueHandler_Get_AccessErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"存在しない", model.NewNotFoundError("issue", 5), http.StatusNotFound},
		{"他ユーザー", model.NewForbiddenError("issue", 5), http.StatusForbidden},
		{"別ワークスペース", model.NewMismatchError("issue", 5, 10), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewIssueHandler(&mockIssueService{
				getFn: func(context.Context, int64, int64, int64) (*dto.IssueResponse, error) {
					return nil, tt.err
				},
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/workspaces/10/issues/5", nil)
			req = withUserID(withChiURLParams(req, "workspaceId", "10", "issueId", "5"), 1)
			w := httptest.NewRecorder()

			h.Get(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestIssueHandler_Create(t *testing.T) {
	var got dto.IssueCreate
	h := NewIssueHandler(&mockIssueService{
		createFn: func(ctx context.Context, principal, workspaceID int64, req dto.IssueCreate) (*dto.IssueResponse, error) {
			got = req
			return &dto.IssueResponse{ID: 1, Title: req.Title, Status: req.Status, Priority: req.Priority, WorkspaceID: workspaceID}, nil
		},
	})

	body := `{"title":"Fix login","status":"TO_DO","priority":"HIGH","projectId":3}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/workspaces/10/issues", strings.NewReader(body))
	req = withUserID(withChiURLParams(req, "workspaceId", "10"), 1)
	w := httptest.NewRecorder()

	h.Create(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusCreated)
	}
	if got.ProjectID == nil || *got.ProjectID != 3 || got.Status != model.StatusToDo {
		t.Errorf("サービスに渡されたリクエストが不正: %+v", got)
	}
}

func TestIssueHandler_Update_ProjectSentinel(t *testing.T) {
	var got dto.IssueUpdate
	h := NewIssueHandler(&mockIssueService{
		updateFn: func(ctx context.Context, principal, workspaceID, issueID int64, req dto.IssueUpdate) (*dto.IssueResponse, error) {
			got = req
			return &dto.IssueResponse{ID: issueID, Title: "t", WorkspaceID: workspaceID}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPut, "/api/v1/workspaces/10/issues/5", strings.NewReader(`{"projectId":-1}`))
	req = withUserID(withChiURLParams(req, "workspaceId", "10", "issueId", "5"), 1)
	w := httptest.NewRecorder()

	h.Update(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !got.ProjectID.Present() || got.ProjectID.Value != model.NoProjectID {
		t.Errorf("projectId = %+v, want %d", got.ProjectID, model.NoProjectID)
	}
	if got.Title.Set || got.Status.Set {
		t.Error("省略したフィールドがSetになっている")
	}
}

func TestIssueHandler_Delete(t *testing.T) {
	h := NewIssueHandler(&mockIssueService{
		deleteFn: func(ctx context.Context, principal, workspaceID, issueID int64) error {
			return nil
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/workspaces/10/issues/5", nil)
	req = withUserID(withChiURLParams(req, "workspaceId", "10", "issueId", "5"), 1)
	w := httptest.NewRecorder()

	h.Delete(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
}
