package postgres

import (
	"strconv"
	"strings"

	"github.com/Gitsandu/taskmanagementBackend/internal/domain/repository"
)

const taskColumns = `id, title, description, due_date, priority, status, user_id, created_at, updated_at`

var sortColumns = map[repository.SortField]string{
	repository.SortByCreatedAt:   "created_at",
	repository.SortByUpdatedAt:   "updated_at",
	repository.SortByDueDate:     "due_date",
	repository.SortByTitle:       "title",
	repository.SortByDescription: "description",
	repository.SortByPriority:    "priority",
	repository.SortByStatus:      "status",
}

// escapeLike makes s match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// buildFindMany renders the SELECT for FindMany with positional args.
// Column names only ever come from sortColumns.
func buildFindMany(f repository.TaskFilter, s repository.TaskSort) (string, []any) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	where = append(where, "user_id = "+arg(f.OwnerID))
	if f.Status != "" {
		where = append(where, "status = "+arg(string(f.Status)))
	}
	if f.Search != "" {
		p := arg("%" + escapeLike(f.Search) + "%")
		where = append(where, "(title ILIKE "+p+" OR description ILIKE "+p+")")
	}
	if f.CreatedFrom != nil {
		where = append(where, "created_at >= "+arg(*f.CreatedFrom))
	}
	if f.CreatedTo != nil {
		where = append(where, "created_at <= "+arg(*f.CreatedTo))
	}
	if f.DueFrom != nil {
		where = append(where, "due_date >= "+arg(*f.DueFrom))
	}
	if f.DueTo != nil {
		where = append(where, "due_date <= "+arg(*f.DueTo))
	}

	col, ok := sortColumns[s.Field]
	if !ok {
		col = "created_at"
	}
	dir := "ASC NULLS FIRST"
	if s.Desc {
		dir = "DESC NULLS LAST"
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(taskColumns)
	b.WriteString(" FROM tasks WHERE ")
	b.WriteString(strings.Join(where, " AND "))
	b.WriteString(" ORDER BY ")
	b.WriteString(col)
	b.WriteString(" ")
	b.WriteString(dir)
	// tie-break keeps equal sort keys in a stable order
	b.WriteString(", id ASC")
	return b.String(), args
}
