package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/store/kv"
)

var today = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func sample() []model.Todo {
	due, _ := model.ParseDate("2025-06-09")
	return []model.Todo{
		{ID: 2, Text: `<script>alert("x")</script>`, CreatedAt: today, Priority: model.PriorityHigh, DueDate: due, Order: 1},
		{ID: 1, Text: "Buy milk & eggs", Completed: true, CreatedAt: today, Priority: model.PriorityLow},
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"json": FormatJSON, "YAML": FormatYAML, "yml": FormatYAML, " html ": FormatHTML} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("csv"); err == nil {
		t.Error("csv should be rejected")
	}
}

func TestJSONIsLoadable(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatJSON, sample(), today); err != nil {
		t.Fatal(err)
	}
	mem := kv.NewMemory()
	if err := mem.Set(store.DefaultKey, buf.Bytes()); err != nil {
		t.Fatal(err)
	}
	got := store.New(mem).Load()
	if len(got) != 2 || got[0].Text != sample()[0].Text || !got[1].Completed {
		t.Fatalf("reloaded: %+v", got)
	}
}

func TestYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatYAML, sample(), today); err != nil {
		t.Fatal(err)
	}
	var doc yamlDoc
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, buf.String())
	}
	if doc.Stats != (model.Stats{Total: 2, Completed: 1, Pending: 1}) {
		t.Errorf("stats: %+v", doc.Stats)
	}
	if doc.Todos[0].DueDate != "2025-06-09" || doc.Todos[1].DueDate != "" {
		t.Errorf("due dates: %+v", doc.Todos)
	}
	if strings.Contains(buf.String(), "dueDate: \"\"") {
		t.Errorf("empty due date should be omitted:\n%s", buf.String())
	}
}

func TestHTMLEscapesText(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatHTML, sample(), today); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Contains(out, "<script>alert") {
		t.Fatal("todo text was not escaped")
	}
	for _, want := range []string{
		"&lt;script&gt;",
		"Buy milk &amp; eggs",
		`class="priority-badge priority-high"`,
		`class="due-badge due-overdue"`,
		"overdue by 1 day",
		`class="todo-item completed"`,
		"2 todos",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q", want)
		}
	}
}

func TestHTMLEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatHTML, nil, today); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "No todos yet.") || !strings.Contains(buf.String(), "0 todos") {
		t.Fatalf("empty page:\n%s", buf.String())
	}
}
