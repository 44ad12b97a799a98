package issue

import (
	"github.com/hitoshi/taskboard/internal/dto"
	"github.com/hitoshi/taskboard/internal/model"
)

// NoProjectGroup はプロジェクト別グルーピングでプロジェクト未設定の課題をまとめるキー。
const NoProjectGroup = "None"

// AllGroup はグルーピングしない場合の唯一のキー。
const AllGroup = "all"

// Group は検索・並び替え済みの課題をgroupByのキーで分割する。
// 各グループ内では入力の順序を保ち、課題の欠落や重複は生じない。
// GroupByNoneの場合は課題がなくても"all"キーを返す。
func Group(issues []*model.Issue, groupBy string) map[string][]dto.IssueResponse {
	if groupBy == GroupByNone {
		return map[string][]dto.IssueResponse{AllGroup: dto.ToIssueResponses(issues)}
	}

	key := groupKeyFunc(groupBy)
	groups := make(map[string][]dto.IssueResponse)
	for _, i := range issues {
		k := key(i)
		groups[k] = append(groups[k], dto.ToIssueResponse(i))
	}
	return groups
}

func groupKeyFunc(groupBy string) func(*model.Issue) string {
	switch groupBy {
	case GroupByPriority:
		return func(i *model.Issue) string { return string(i.Priority) }
	case GroupByProject:
		return func(i *model.Issue) string {
			if i.ProjectID == nil || i.Project == nil {
				return NoProjectGroup
			}
			return i.Project.Name
		}
	default:
		return func(i *model.Issue) string { return string(i.Status) }
	}
}
