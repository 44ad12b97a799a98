package issue

import (
	"fmt"
	"strconv"

	sq "github.com/Masterminds/squirrel"

	"github.com/hitoshi/taskboard/internal/model"
	"github.com/hitoshi/taskboard/internal/repository"
)

// statusRank と priorityRank は並び替えに使う順位表。
// 文字列の辞書順ではなく、進捗と重要度の順に並べる。
var (
	statusRank   = rankTable(model.Statuses)
	priorityRank = rankTable(model.Priorities)
)

type rankEntry struct {
	value string
	rank  int
}

func rankTable[T ~string](values []T) []rankEntry {
	out := make([]rankEntry, len(values))
	for i, v := range values {
		out[i] = rankEntry{value: string(v), rank: i}
	}
	return out
}

// rankExpr は列の値を順位に変換するCASE式を返す。未知の値は-1。
func rankExpr(column string, table []rankEntry) (string, error) {
	c := sq.Case(column)
	for _, e := range table {
		c = c.When("'"+e.value+"'", strconv.Itoa(e.rank))
	}
	sqlStr, _, err := c.Else("-1").ToSql()
	if err != nil {
		return "", fmt.Errorf("failed to build rank expression for %s: %w", column, err)
	}
	return sqlStr, nil
}

// BuildQuery はワークスペースworkspaceIDの課題を検索するSELECT文を組み立てる。
// filterは呼び出し前にNormalizeしておくこと（未知の値は既定値として扱われる）。
// 同じ並び替えキーの課題はIDで順序を確定させる。
func BuildQuery(workspaceID int64, filter Filter) (string, []any, error) {
	f := filter.Normalize()

	q := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(repository.IssueColumns...).
		From(repository.IssueFrom).
		LeftJoin(repository.IssueProjectJoin).
		Where(sq.Eq{"i.workspace_id": workspaceID})

	if pred := projectPredicate(f.ProjectIDs); pred != nil {
		q = q.Where(pred)
	}
	if len(f.Statuses) > 0 {
		q = q.Where(sq.Eq{"i.status": toStrings(f.Statuses)})
	}
	if len(f.Priorities) > 0 {
		q = q.Where(sq.Eq{"i.priority": toStrings(f.Priorities)})
	}

	dir := "DESC"
	if f.SortOrder == SortAsc {
		dir = "ASC"
	}

	var orderExpr string
	switch f.SortBy {
	case SortByTitle:
		orderExpr = "i.title"
	case SortByStatus:
		expr, err := rankExpr("i.status", statusRank)
		if err != nil {
			return "", nil, err
		}
		orderExpr = expr
	case SortByPriority:
		expr, err := rankExpr("i.priority", priorityRank)
		if err != nil {
			return "", nil, err
		}
		orderExpr = expr
	default:
		orderExpr = "i.created_at"
	}
	q = q.OrderBy(orderExpr+" "+dir, "i.id "+dir)

	return q.ToSql()
}

// projectPredicate はプロジェクトIDの絞り込み条件を返す。
// 番兵値が含まれる場合はproject_idがNULLの課題も対象にする。
func projectPredicate(ids []int64) sq.Sqlizer {
	if len(ids) == 0 {
		return nil
	}

	includeNone := false
	assigned := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id == model.NoProjectID {
			includeNone = true
			continue
		}
		assigned = append(assigned, id)
	}

	switch {
	case includeNone && len(assigned) > 0:
		return sq.Or{
			sq.Eq{"i.project_id": assigned},
			sq.Eq{"i.project_id": nil},
		}
	case includeNone:
		return sq.Eq{"i.project_id": nil}
	default:
		return sq.Eq{"i.project_id": assigned}
	}
}

func toStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
