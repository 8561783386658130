package store

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Makepad-fr/tada/internal/model"
)

// createdAtLayout matches the ISO-8601 form with millisecond precision.
const createdAtLayout = "2006-01-02T15:04:05.000Z07:00"

// wireTodo is the persisted form of a todo.
type wireTodo struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"createdAt"`
	Priority  string `json:"priority"`
	DueDate   string `json:"dueDate"`
	Order     int    `json:"order"`
}

func toWire(t model.Todo) wireTodo {
	return wireTodo{
		ID:        t.ID,
		Text:      t.Text,
		Completed: t.Completed,
		CreatedAt: FormatTimestamp(t.CreatedAt),
		Priority:  string(model.PriorityOrDefault(string(t.Priority))),
		DueDate:   t.DueDate.String(),
		Order:     t.Order,
	}
}

// FormatTimestamp renders t the way createdAt is persisted.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(createdAtLayout)
}

// Encode serializes todos into the persisted layout.
func Encode(todos []model.Todo) ([]byte, error) {
	out := make([]wireTodo, 0, len(todos))
	for _, t := range todos {
		out = append(out, toWire(t))
	}
	return json.Marshal(out)
}

// looseTodo accepts anything a previous version or another writer may have
// stored. Absent fields stay nil so defaults can be told apart from zeros.
type looseTodo struct {
	ID        any `json:"id"`
	Text      any `json:"text"`
	Completed any `json:"completed"`
	CreatedAt any `json:"createdAt"`
	Priority  any `json:"priority"`
	DueDate   any `json:"dueDate"`
	Order     any `json:"order"`
}

// Issue describes a field that was defaulted or coerced during normalization.
type Issue struct {
	Index int
	Field string
	Msg   string
}

// normalizer fills defaults field by field. Synthesized ids are derived from
// the load time plus the record index and bumped past any id already taken in
// the same pass.
type normalizer struct {
	now    time.Time
	taken  map[int64]bool
	issues []Issue
}

func (n *normalizer) issue(i int, field, msg string) {
	n.issues = append(n.issues, Issue{Index: i, Field: field, Msg: msg})
}

// normalize turns loose records into todos. The first pass reserves every
// explicit id so synthesized ones can never collide with a later record.
func (n *normalizer) normalize(recs []looseTodo) []model.Todo {
	n.taken = make(map[int64]bool, len(recs))
	ids := make([]int64, len(recs))
	have := make([]bool, len(recs))
	for i, r := range recs {
		if id, ok := asInt(r.ID); ok && !n.taken[id] {
			ids[i], have[i] = id, true
			n.taken[id] = true
		}
	}

	out := make([]model.Todo, 0, len(recs))
	for i, r := range recs {
		id := ids[i]
		if !have[i] {
			if r.ID != nil {
				n.issue(i, "id", "duplicate or non-integer id replaced")
			}
			id = n.nextID(n.now.UnixMilli() + int64(i))
		}
		out = append(out, model.Todo{
			ID:        id,
			Text:      n.text(i, r.Text),
			Completed: truthy(r.Completed),
			CreatedAt: n.createdAt(i, r.CreatedAt),
			Priority:  n.priority(i, r.Priority),
			DueDate:   n.dueDate(i, r.DueDate),
			Order:     n.order(i, r.Order),
		})
	}
	return out
}

func (n *normalizer) nextID(candidate int64) int64 {
	for n.taken[candidate] {
		candidate++
	}
	n.taken[candidate] = true
	return candidate
}

func (n *normalizer) text(i int, v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	}
	n.issue(i, "text", "non-string text dropped")
	return ""
}

func (n *normalizer) createdAt(i int, v any) time.Time {
	s, ok := v.(string)
	if !ok || s == "" {
		if v != nil {
			n.issue(i, "createdAt", "non-string timestamp replaced")
		}
		return n.now
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		n.issue(i, "createdAt", "unparseable timestamp replaced")
		return n.now
	}
	return t.UTC()
}

func (n *normalizer) priority(i int, v any) model.Priority {
	s, _ := v.(string)
	if s == "" {
		return model.PriorityMedium
	}
	p, ok := model.ParsePriority(s)
	if !ok {
		n.issue(i, "priority", "unknown priority "+strconv.Quote(s)+" coerced to medium")
	}
	return p
}

func (n *normalizer) dueDate(i int, v any) model.Date {
	s, _ := v.(string)
	if s == "" {
		return model.Date{}
	}
	// Accept full timestamps too; only the calendar day matters.
	if len(s) > 10 && s[10] == 'T' {
		s = s[:10]
	}
	d, err := model.ParseDate(s)
	if err != nil {
		n.issue(i, "dueDate", "unparseable due date dropped")
		return model.Date{}
	}
	return d
}

func (n *normalizer) order(i int, v any) int {
	if v == nil {
		return i
	}
	o, ok := asInt(v)
	if !ok {
		n.issue(i, "order", "non-integer order replaced by index")
		return i
	}
	return int(o)
}

func asInt(v any) (int64, bool) {
	switch x := v.(type) {
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) || math.IsNaN(x) {
			return 0, false
		}
		return int64(x), true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		return n, err == nil
	}
	return 0, false
}

// truthy mirrors JavaScript's Boolean() coercion for JSON values.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0 && !math.IsNaN(x)
	case string:
		return x != ""
	}
	// Objects and arrays are truthy.
	return true
}
