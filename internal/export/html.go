package export

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/view"
)

var page = template.Must(template.New("todos").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Todos</title>
<style>
body{font-family:system-ui,sans-serif;max-width:40rem;margin:2rem auto}
.todo-item{display:flex;gap:.5rem;padding:.4rem 0;border-bottom:1px solid #eee}
.completed .todo-text{text-decoration:line-through;opacity:.6}
.priority-badge,.due-badge{font-size:.8rem;padding:0 .4rem;border-radius:.6rem}
.priority-high{background:#fdd}.priority-medium{background:#ffe9c7}.priority-low{background:#dfd}
.due-overdue{color:#b00}.due-today{color:#b60}.due-soon{color:#06b}
</style>
</head>
<body>
<h1>Todos</h1>
<p class="stats">{{.Stats.Completed}} completed · {{.Stats.Pending}} pending · {{.Stats.Total}} total</p>
{{- if .Rows}}
<div class="todo-list">
{{- range .Rows}}
<div class="todo-item{{if .Completed}} completed{{end}}" data-id="{{.ID}}">
<input type="checkbox" disabled{{if .Completed}} checked{{end}}>
<span class="todo-text">{{.Text}}</span>
<span class="priority-badge {{.PriorityClass}}">{{.PriorityLabel}}</span>
{{- if .DueLabel}}
<span class="due-badge {{.DueClass}}" title="{{.DueDate}}">{{.DueLabel}}</span>
{{- end}}
</div>
{{- end}}
</div>
{{- else}}
<p class="empty-state">No todos yet.</p>
{{- end}}
<p class="count">{{.CountLabel}}</p>
</body>
</html>
`))

// writeHTML renders a static page. Todo text is escaped by html/template.
func writeHTML(w io.Writer, todos []model.Todo, today time.Time) error {
	v := view.View{
		Rows:       make([]view.Row, 0, len(todos)),
		Filter:     model.FilterAll,
		CountLabel: view.CountLabel(len(todos)),
		Stats:      model.Summarize(todos),
	}
	for _, t := range todos {
		v.Rows = append(v.Rows, view.NewRow(t, false, today))
	}
	if err := page.Execute(w, v); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}
