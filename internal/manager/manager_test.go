package manager

import (
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/store/kv"
	"github.com/Makepad-fr/tada/internal/view"
)

var testNow = time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

// spyStore records saves without touching a backend.
type spyStore struct {
	todos []model.Todo
	saves int
	err   error
}

func (s *spyStore) Load() []model.Todo { return append([]model.Todo(nil), s.todos...) }

func (s *spyStore) Save(todos []model.Todo) error {
	s.saves++
	if s.err != nil {
		return s.err
	}
	s.todos = append([]model.Todo(nil), todos...)
	return nil
}

func newTestManager(todos ...model.Todo) (*Manager, *spyStore) {
	spy := &spyStore{todos: todos}
	m := New(spy, WithClock(func() time.Time { return testNow }))
	return m, spy
}

func ids(todos []model.Todo) []int64 {
	out := make([]int64, 0, len(todos))
	for _, t := range todos {
		out = append(out, t.ID)
	}
	return out
}

func TestAdd_EmptyIsNoop(t *testing.T) {
	for _, text := range []string{"", "   ", "\t\n"} {
		m, spy := newTestManager(model.Todo{ID: 1, Text: "a"})
		_, err := m.Add(text, model.PriorityHigh, "")
		if !errors.Is(err, ErrEmptyText) {
			t.Fatalf("Add(%q): got %v, want ErrEmptyText", text, err)
		}
		if len(m.Todos()) != 1 {
			t.Errorf("Add(%q): collection changed to %d items", text, len(m.Todos()))
		}
		if spy.saves != 0 {
			t.Errorf("Add(%q): persisted %d times", text, spy.saves)
		}
		if m.Validation() != "Please enter a todo" {
			t.Errorf("validation: got %q", m.Validation())
		}
	}
}

func TestAdd_PrependsWithFields(t *testing.T) {
	m, spy := newTestManager(model.Todo{ID: 1, Text: "old", Order: 4})
	m.fail("stale")

	got, err := m.Add("  Buy milk ", model.PriorityHigh, "2025-01-01")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	first := m.Todos()[0]
	if diff := cmp.Diff(got, first); diff != "" {
		t.Fatalf("returned todo differs from first element (-ret +first):\n%s", diff)
	}
	want := model.Todo{
		ID: testNow.UnixMilli(), Text: "Buy milk", Completed: false, CreatedAt: testNow,
		Priority: model.PriorityHigh, DueDate: model.Date{Year: 2025, Month: time.January, Day: 1},
		Order: 5,
	}
	if diff := cmp.Diff(want, first); diff != "" {
		t.Fatalf("added todo (-want +got):\n%s", diff)
	}
	if spy.saves != 1 || len(spy.todos) != 2 {
		t.Errorf("persisted: saves=%d len=%d", spy.saves, len(spy.todos))
	}
	if m.Validation() != "" {
		t.Errorf("validation not cleared: %q", m.Validation())
	}
}

func TestAdd_OrderZeroWhenEmptyAndDefaultPriority(t *testing.T) {
	m, _ := newTestManager()
	got, err := m.Add("x", "", "")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if got.Order != 0 || got.Priority != model.PriorityMedium || !got.DueDate.IsZero() {
		t.Fatalf("got %+v", got)
	}
}

func TestAdd_SameMillisecondKeepsIDsUnique(t *testing.T) {
	m, _ := newTestManager()
	a, _ := m.Add("a", model.PriorityLow, "")
	b, _ := m.Add("b", model.PriorityLow, "")
	if a.ID == b.ID || b.ID < a.ID {
		t.Fatalf("ids: a=%d b=%d", a.ID, b.ID)
	}
}

func TestAdd_Validation(t *testing.T) {
	m, spy := newTestManager()
	if _, err := m.Add(strings.Repeat("é", model.MaxTextLen+1), "", ""); !errors.Is(err, ErrTextTooLong) {
		t.Errorf("long text: got %v", err)
	}
	if _, err := m.Add(strings.Repeat("é", model.MaxTextLen), "", ""); err != nil {
		t.Errorf("max-length text: got %v", err)
	}
	if _, err := m.Add("x", "", "tomorrow"); !errors.Is(err, ErrInvalidDueDate) {
		t.Errorf("bad date: got %v", err)
	}
	if spy.saves != 1 {
		t.Errorf("saves: got %d, want 1", spy.saves)
	}
}

func TestToggle_Idempotence(t *testing.T) {
	m, spy := newTestManager(model.Todo{ID: 1}, model.Todo{ID: 2, Completed: true})
	_ = m.Toggle(2)
	if m.Todos()[1].Completed {
		t.Fatal("toggle did not flip")
	}
	_ = m.Toggle(2)
	if !m.Todos()[1].Completed {
		t.Fatal("double toggle did not restore")
	}
	if err := m.Toggle(99); err != nil {
		t.Fatalf("toggle missing id: %v", err)
	}
	if spy.saves != 2 {
		t.Errorf("saves: got %d, want 2", spy.saves)
	}
}

func TestDelete_DropsSelection(t *testing.T) {
	m, _ := newTestManager(model.Todo{ID: 1}, model.Todo{ID: 2})
	m.ToggleSelect(2, true)
	_ = m.Delete(2)
	if got := ids(m.Todos()); !cmp.Equal(got, []int64{1}) {
		t.Fatalf("todos: %v", got)
	}
	if len(m.Selected()) != 0 {
		t.Fatalf("selection kept deleted id: %v", m.Selected())
	}
	if err := m.Delete(42); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
}

func TestBulkComplete(t *testing.T) {
	m, _ := newTestManager(model.Todo{ID: 1}, model.Todo{ID: 2}, model.Todo{ID: 3})
	m.ToggleSelect(2, true)
	m.ToggleSelect(3, true)

	want := []bool{false, true, true}
	for round := 0; round < 2; round++ {
		if _, err := m.BulkComplete(); err != nil {
			t.Fatalf("BulkComplete: %v", err)
		}
		var got []bool
		for _, td := range m.Todos() {
			got = append(got, td.Completed)
		}
		if !cmp.Equal(got, want) {
			t.Fatalf("round %d: got %v, want %v", round, got, want)
		}
	}
}

func TestBulkComplete_NeverUncompletes(t *testing.T) {
	m, _ := newTestManager(model.Todo{ID: 1, Completed: true})
	m.ToggleSelect(1, true)
	_, _ = m.BulkComplete()
	if !m.Todos()[0].Completed {
		t.Fatal("bulk complete un-completed a todo")
	}
}

func TestBulk_EmptySelectionIsNoop(t *testing.T) {
	m, spy := newTestManager(model.Todo{ID: 1})
	if n, _ := m.BulkComplete(); n != 0 {
		t.Errorf("BulkComplete: %d", n)
	}
	if n, _ := m.BulkDelete(); n != 0 {
		t.Errorf("BulkDelete: %d", n)
	}
	if spy.saves != 0 {
		t.Errorf("saves: %d", spy.saves)
	}
}

func TestBulkDelete(t *testing.T) {
	m, _ := newTestManager(model.Todo{ID: 1}, model.Todo{ID: 2}, model.Todo{ID: 3})
	m.ToggleSelect(1, true)
	m.ToggleSelect(3, true)
	n, err := m.BulkDelete()
	if err != nil || n != 2 {
		t.Fatalf("BulkDelete: n=%d err=%v", n, err)
	}
	if got := ids(m.Todos()); !cmp.Equal(got, []int64{2}) {
		t.Fatalf("todos: %v", got)
	}
	if len(m.Selected()) != 0 {
		t.Fatalf("selection not cleared: %v", m.Selected())
	}
}

func TestToggleSelectAll_OnlyFiltered(t *testing.T) {
	m, spy := newTestManager(
		model.Todo{ID: 1},
		model.Todo{ID: 2, Completed: true},
		model.Todo{ID: 3},
	)
	m.SetFilter(model.FilterActive)
	m.ToggleSelectAll(true)

	if got := m.Selected(); !cmp.Equal(got, []int64{1, 3}) {
		t.Fatalf("selected: %v", got)
	}
	if !m.SelectAllState() {
		t.Error("select-all should read as checked under the active filter")
	}
	m.SetFilter(model.FilterAll)
	if m.SelectAllState() {
		t.Error("select-all should be unchecked once the completed todo is visible")
	}
	if m.IsSelected(2) {
		t.Error("completed todo became selected")
	}
	m.SetFilter(model.FilterActive)
	m.ToggleSelectAll(false)
	if len(m.Selected()) != 0 {
		t.Errorf("deselect all: %v", m.Selected())
	}
	if spy.saves != 0 {
		t.Errorf("selection persisted: %d saves", spy.saves)
	}
}

func TestSelectAllState_EmptyView(t *testing.T) {
	m, _ := newTestManager(model.Todo{ID: 1})
	m.SetFilter(model.FilterCompleted)
	m.ToggleSelectAll(true)
	if m.SelectAllState() {
		t.Fatal("empty view must never read as all selected")
	}
}

func TestEditLifecycle(t *testing.T) {
	m, spy := newTestManager(model.Todo{ID: 1, Text: "one"}, model.Todo{ID: 2, Text: "two"})

	m.StartEdit(1)
	m.StartEdit(2)
	if id, ok := m.Editing(); !ok || id != 2 {
		t.Fatalf("editing: %d %v", id, ok)
	}
	if m.Todos()[0].Editing || !m.Todos()[1].Editing {
		t.Fatalf("only todo 2 should be editing: %+v", m.Todos())
	}

	if err := m.SaveEdit(2, ""); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("SaveEdit empty: %v", err)
	}
	if got := m.Todos()[1]; got.Text != "two" || !got.Editing {
		t.Fatalf("after empty save: %+v", got)
	}
	if m.Validation() != "Todo cannot be empty" {
		t.Errorf("validation: %q", m.Validation())
	}
	if spy.saves != 0 {
		t.Fatalf("empty save persisted")
	}

	if err := m.SaveEdit(2, "  New text  "); err != nil {
		t.Fatalf("SaveEdit: %v", err)
	}
	if got := m.Todos()[1]; got.Text != "New text" || got.Editing {
		t.Fatalf("after save: %+v", got)
	}
	if _, ok := m.Editing(); ok {
		t.Error("still editing after save")
	}
	if m.Validation() != "" || spy.saves != 1 {
		t.Errorf("validation=%q saves=%d", m.Validation(), spy.saves)
	}
}

func TestCancelEdit(t *testing.T) {
	m, spy := newTestManager(model.Todo{ID: 1, Text: "one"})
	m.StartEdit(1)
	m.CancelEdit()
	if m.Todos()[0].Editing || m.Todos()[0].Text != "one" {
		t.Fatalf("after cancel: %+v", m.Todos()[0])
	}
	if spy.saves != 0 {
		t.Fatal("cancel persisted")
	}
}

func TestReorder(t *testing.T) {
	base := func() []model.Todo {
		return []model.Todo{{ID: 1, Order: 7}, {ID: 2, Order: 3}, {ID: 3, Order: 3}, {ID: 4, Order: 0}}
	}
	tests := []struct {
		name            string
		dragged, target int64
		want            []int64
		persisted       bool
	}{
		{"down", 1, 3, []int64{2, 3, 1, 4}, true},
		{"up", 4, 2, []int64{1, 4, 2, 3}, true},
		{"to end", 1, 4, []int64{2, 3, 4, 1}, true},
		{"to start", 3, 1, []int64{3, 1, 2, 4}, true},
		{"same id", 2, 2, []int64{1, 2, 3, 4}, false},
		{"missing dragged", 9, 2, []int64{1, 2, 3, 4}, false},
		{"missing target", 2, 9, []int64{1, 2, 3, 4}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, spy := newTestManager(base()...)
			if err := m.Reorder(tt.dragged, tt.target); err != nil {
				t.Fatalf("Reorder: %v", err)
			}
			got := m.Todos()
			if !cmp.Equal(ids(got), tt.want) {
				t.Fatalf("order: got %v, want %v", ids(got), tt.want)
			}
			if (spy.saves == 1) != tt.persisted {
				t.Fatalf("saves: %d", spy.saves)
			}
			if !tt.persisted {
				return
			}
			orders := make([]int, 0, len(got))
			for i, td := range got {
				if td.Order != i {
					t.Errorf("todo %d: order %d at index %d", td.ID, td.Order, i)
				}
				orders = append(orders, td.Order)
			}
			sort.Ints(orders)
			if !cmp.Equal(orders, []int{0, 1, 2, 3}) {
				t.Errorf("orders not dense: %v", orders)
			}
		})
	}
}

func TestDragAndDrop(t *testing.T) {
	m, _ := newTestManager(model.Todo{ID: 1}, model.Todo{ID: 2}, model.Todo{ID: 3})
	m.BeginDrag(3)
	if id, ok := m.Dragging(); !ok || id != 3 {
		t.Fatalf("dragging: %d %v", id, ok)
	}
	if v := m.View(testNow); !v.Rows[2].Dragging {
		t.Error("row 3 should be marked as dragging")
	}
	if err := m.DropOn(1); err != nil {
		t.Fatalf("DropOn: %v", err)
	}
	if got := ids(m.Todos()); !cmp.Equal(got, []int64{3, 1, 2}) {
		t.Fatalf("after drop: %v", got)
	}
	if _, ok := m.Dragging(); ok {
		t.Error("drag not ended")
	}

	m.BeginDrag(2)
	m.EndDrag()
	if err := m.DropOn(3); err != nil {
		t.Fatal(err)
	}
	if got := ids(m.Todos()); !cmp.Equal(got, []int64{3, 1, 2}) {
		t.Fatalf("drop after EndDrag moved items: %v", got)
	}
}

func TestView(t *testing.T) {
	due, _ := model.ParseDate("2025-06-11")
	m, _ := newTestManager(
		model.Todo{ID: 1, Text: "a", Priority: model.PriorityHigh, DueDate: due},
		model.Todo{ID: 2, Text: "b", Completed: true},
	)
	var frames []view.View
	m.Subscribe(view.RendererFunc(func(v view.View) { frames = append(frames, v) }))

	m.SetFilter(model.FilterActive)
	if len(frames) != 1 {
		t.Fatalf("frames: %d", len(frames))
	}
	v := frames[0]
	if len(v.Rows) != 1 || v.Rows[0].ID != 1 {
		t.Fatalf("rows: %+v", v.Rows)
	}
	if v.Rows[0].DueLabel != "due tomorrow" || v.Rows[0].PriorityLabel != "High" {
		t.Errorf("badges: %+v", v.Rows[0])
	}
	if v.CountLabel != "1 todo" || v.Filter != model.FilterActive {
		t.Errorf("footer: %q %q", v.CountLabel, v.Filter)
	}
	if v.Stats != (model.Stats{Total: 2, Completed: 1, Pending: 1}) {
		t.Errorf("stats: %+v", v.Stats)
	}
}

func TestCommit_SaveErrorKeepsMemoryState(t *testing.T) {
	m, spy := newTestManager(model.Todo{ID: 1})
	spy.err = errors.New("disk full")
	err := m.Toggle(1)
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("Toggle: %v", err)
	}
	if !m.Todos()[0].Completed {
		t.Fatal("in-memory state should keep the mutation")
	}
}

func TestReload_FromExternalWriter(t *testing.T) {
	mem := kv.NewMemory()
	clock := func() time.Time { return testNow }
	later := func() time.Time { return testNow.Add(time.Minute) }
	tab1 := New(store.New(mem, store.WithClock(clock)), WithClock(clock))
	tab2 := New(store.New(mem, store.WithClock(later)), WithClock(later))

	a, _ := tab1.Add("from tab1", model.PriorityLow, "")
	tab1.ToggleSelect(a.ID, true)
	tab1.StartEdit(a.ID)

	tab2.Reload()
	_ = tab2.Delete(a.ID)
	_, _ = tab2.Add("from tab2", model.PriorityHigh, "")

	tab1.Reload()
	got := tab1.Todos()
	if len(got) != 1 || got[0].Text != "from tab2" {
		t.Fatalf("tab1 after reload: %+v", got)
	}
	if len(tab1.Selected()) != 0 {
		t.Errorf("selection should be pruned: %v", tab1.Selected())
	}
	if _, ok := tab1.Editing(); ok {
		t.Error("editing should be reset on reload")
	}
}

func TestRoundTripThroughStore(t *testing.T) {
	mem := kv.NewMemory()
	clock := func() time.Time { return testNow }
	s := store.New(mem, store.WithClock(clock))
	m := New(s, WithClock(clock))
	_, _ = m.Add("one", model.PriorityLow, "2025-06-20")
	_, _ = m.Add("two", model.PriorityHigh, "")
	_ = m.Toggle(m.Todos()[1].ID)
	m.StartEdit(m.Todos()[0].ID)

	want := m.Todos()
	for i := range want {
		want[i].Editing = false
	}
	if diff := cmp.Diff(want, s.Load()); diff != "" {
		t.Fatalf("reload mismatch (-want +got):\n%s", diff)
	}
}
