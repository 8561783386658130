// Package export writes the todo collection in portable formats.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatHTML Format = "html"
)

var Formats = []Format{FormatJSON, FormatYAML, FormatHTML}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatJSON, FormatYAML, FormatHTML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown export format %q (want json, yaml or html)", s)
}

// Write renders todos to w. Badges in the HTML page are computed for today.
func Write(w io.Writer, f Format, todos []model.Todo, today time.Time) error {
	switch f {
	case FormatJSON:
		return writeJSON(w, todos)
	case FormatYAML:
		return writeYAML(w, todos)
	case FormatHTML:
		return writeHTML(w, todos, today)
	}
	return fmt.Errorf("unknown export format %q", f)
}

// writeJSON emits exactly the persisted layout, indented, so the output can
// be copied back into the slot.
func writeJSON(w io.Writer, todos []model.Todo) error {
	raw, err := store.Encode(todos)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return fmt.Errorf("json indent: %w", err)
	}
	buf.WriteByte('\n')
	_, err = buf.WriteTo(w)
	return err
}

type yamlTodo struct {
	ID        int64  `yaml:"id"`
	Text      string `yaml:"text"`
	Completed bool   `yaml:"completed"`
	CreatedAt string `yaml:"createdAt"`
	Priority  string `yaml:"priority"`
	DueDate   string `yaml:"dueDate,omitempty"`
	Order     int    `yaml:"order"`
}

type yamlDoc struct {
	Stats model.Stats `yaml:"stats"`
	Todos []yamlTodo  `yaml:"todos"`
}

func writeYAML(w io.Writer, todos []model.Todo) error {
	doc := yamlDoc{Stats: model.Summarize(todos), Todos: make([]yamlTodo, 0, len(todos))}
	for _, t := range todos {
		doc.Todos = append(doc.Todos, yamlTodo{
			ID:        t.ID,
			Text:      t.Text,
			Completed: t.Completed,
			CreatedAt: store.FormatTimestamp(t.CreatedAt),
			Priority:  string(model.PriorityOrDefault(string(t.Priority))),
			DueDate:   t.DueDate.String(),
			Order:     t.Order,
		})
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}
