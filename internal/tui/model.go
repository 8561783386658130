// Package tui is the interactive terminal front end: a Bubble Tea list over
// the todo manager, plus a small live stats view.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/tada/internal/manager"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/ui"
	"github.com/Makepad-fr/tada/internal/view"
)

// ExternalChangeMsg reports that another process rewrote the todo slot.
type ExternalChangeMsg struct{}

type mode int

const (
	modeBrowse mode = iota
	modeAdd
	modeEdit
)

// frameSink keeps the latest view the manager rendered.
type frameSink struct {
	v     view.View
	fresh bool
}

func (s *frameSink) Render(v view.View) { s.v, s.fresh = v, true }

// Model is the list manager screen.
type Model struct {
	mgr   *manager.Manager
	frame *frameSink
	theme ui.Theme
	keys  keyMap
	help  help.Model
	list  list.Model

	mode       mode
	text       textinput.Model
	due        textinput.Model
	dueFocused bool
	priority   model.Priority
	presets    []string
	preset     int
	editID     int64
	status     string

	width, height int
}

// New builds the screen over mgr and subscribes to its renders.
func New(mgr *manager.Manager, opts Options) Model {
	opts = opts.withDefaults()
	frame := &frameSink{}
	mgr.Subscribe(frame)

	l := list.New(nil, rowDelegate{theme: opts.Theme}, 80, 20)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(true)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	l.Styles.PaginationStyle = opts.Theme.Help
	l.Styles.NoItems = opts.Theme.Muted

	text := textinput.New()
	text.Prompt = "> "
	text.Placeholder = "What needs to be done?"
	text.CharLimit = model.MaxTextLen

	due := textinput.New()
	due.Prompt = "due "
	due.Placeholder = "YYYY-MM-DD"
	due.CharLimit = len("2006-01-02")

	h := help.New()
	h.Styles.ShortKey = opts.Theme.Accent
	h.Styles.ShortDesc = opts.Theme.Help
	h.Styles.FullKey = opts.Theme.Accent
	h.Styles.FullDesc = opts.Theme.Help

	m := Model{
		mgr:      mgr,
		frame:    frame,
		theme:    opts.Theme,
		keys:     defaultKeys(),
		help:     h,
		list:     l,
		text:     text,
		due:      due,
		priority: model.PriorityMedium,
		presets:  opts.Presets,
		width:    80,
		height:   24,
	}
	frame.Render(mgr.View(opts.Now()))
	m.sync()
	return m
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
	case ExternalChangeMsg:
		m.mgr.Reload()
		if m.mode == modeEdit {
			m.closeForm()
		}
		m.status = "reloaded: changed elsewhere"
	case tea.KeyMsg:
		switch m.mode {
		case modeAdd, modeEdit:
			cmd = m.updateForm(msg)
		default:
			cmd = m.updateBrowse(msg)
		}
	}
	m.sync()
	return m, cmd
}

func (m *Model) updateBrowse(msg tea.KeyMsg) tea.Cmd {
	m.status = ""
	focused, hasFocus := m.focused()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
	case key.Matches(msg, m.keys.Add):
		m.openAdd()
		return textinput.Blink
	case key.Matches(msg, m.keys.Filter):
		m.mgr.SetFilter(m.mgr.Filter().Next())
		m.list.Select(0)
	case key.Matches(msg, m.keys.SelectAll):
		m.mgr.ToggleSelectAll(!m.mgr.SelectAllState())
	case key.Matches(msg, m.keys.BulkComplete):
		n, err := m.mgr.BulkComplete()
		m.report(err, "completed %d", n)
	case key.Matches(msg, m.keys.BulkDelete):
		n, err := m.mgr.BulkDelete()
		m.report(err, "deleted %d", n)
	case !hasFocus:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return cmd
	case key.Matches(msg, m.keys.Toggle):
		m.report(m.mgr.Toggle(focused.ID), "")
	case key.Matches(msg, m.keys.Select):
		m.mgr.ToggleSelect(focused.ID, !focused.Selected)
	case key.Matches(msg, m.keys.Edit):
		m.openEdit(focused)
		return textinput.Blink
	case key.Matches(msg, m.keys.Delete):
		m.report(m.mgr.Delete(focused.ID), "")
	case key.Matches(msg, m.keys.Drag):
		if _, dragging := m.mgr.Dragging(); dragging {
			m.report(m.mgr.DropOn(focused.ID), "")
			m.follow(focused.ID)
		} else {
			m.mgr.BeginDrag(focused.ID)
		}
	case key.Matches(msg, m.keys.MoveUp):
		m.move(focused.ID, -1)
	case key.Matches(msg, m.keys.MoveDown):
		m.move(focused.ID, +1)
	case msg.Type == tea.KeyEsc:
		m.mgr.EndDrag()
	default:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) updateForm(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		if m.mode == modeEdit {
			m.mgr.CancelEdit()
		}
		m.mgr.ClearValidation()
		m.closeForm()
		return nil
	case key.Matches(msg, m.keys.Submit):
		m.submit()
		return nil
	case m.mode == modeAdd && key.Matches(msg, m.keys.NextIn):
		m.dueFocused = !m.dueFocused
		if m.dueFocused {
			m.text.Blur()
			return m.due.Focus()
		}
		m.due.Blur()
		return m.text.Focus()
	case m.mode == modeAdd && key.Matches(msg, m.keys.Priority):
		m.priority = m.priority.Next()
		return nil
	case m.mode == modeAdd && key.Matches(msg, m.keys.Preset):
		if len(m.presets) > 0 {
			m.text.SetValue(m.presets[m.preset%len(m.presets)])
			m.text.CursorEnd()
			m.preset++
		}
		return nil
	}
	var cmd tea.Cmd
	if m.dueFocused {
		m.due, cmd = m.due.Update(msg)
	} else {
		m.text, cmd = m.text.Update(msg)
	}
	return cmd
}

func (m *Model) submit() {
	switch m.mode {
	case modeAdd:
		added, err := m.mgr.Add(m.text.Value(), m.priority, m.due.Value())
		if err != nil {
			if !isValidation(err) {
				m.report(err, "")
			}
			return
		}
		m.resetForm()
		m.follow(added.ID)
	case modeEdit:
		err := m.mgr.SaveEdit(m.editID, m.text.Value())
		if isValidation(err) {
			return
		}
		m.report(err, "")
		id := m.editID
		m.closeForm()
		m.follow(id)
	}
}

func isValidation(err error) bool {
	return errors.Is(err, manager.ErrEmptyText) ||
		errors.Is(err, manager.ErrTextTooLong) ||
		errors.Is(err, manager.ErrInvalidDueDate)
}

func (m *Model) openAdd() {
	m.mode = modeAdd
	m.resetForm()
	m.text.Focus()
	m.resize()
}

func (m *Model) openEdit(r view.Row) {
	m.mode = modeEdit
	m.editID = r.ID
	m.mgr.StartEdit(r.ID)
	m.text.SetValue(r.Text)
	m.text.CursorEnd()
	m.text.Focus()
	m.resize()
}

// resetForm clears the add form: empty text, medium priority, no due date.
func (m *Model) resetForm() {
	m.text.SetValue("")
	m.due.SetValue("")
	m.priority = model.PriorityMedium
	m.dueFocused = false
	m.due.Blur()
	if m.mode != modeBrowse {
		m.text.Focus()
	}
}

func (m *Model) closeForm() {
	m.mode = modeBrowse
	m.editID = 0
	m.text.Blur()
	m.due.Blur()
	m.text.SetValue("")
	m.due.SetValue("")
	m.dueFocused = false
	m.resize()
}

// move swaps the focused todo with its visible neighbour.
func (m *Model) move(id int64, delta int) {
	rows := m.frame.v.Rows
	i := m.list.Index() + delta
	if i < 0 || i >= len(rows) {
		return
	}
	m.report(m.mgr.Reorder(id, rows[i].ID), "")
	m.follow(id)
}

func (m *Model) report(err error, format string, args ...any) {
	switch {
	case err != nil:
		m.status = m.theme.Error.Render(err.Error())
	case format != "":
		m.status = fmt.Sprintf(format, args...)
	}
}

func (m *Model) focused() (view.Row, bool) {
	it, ok := m.list.SelectedItem().(rowItem)
	return it.row, ok
}

// follow moves the cursor onto id once the next frame is synced.
func (m *Model) follow(id int64) {
	m.sync()
	for i, r := range m.frame.v.Rows {
		if r.ID == id {
			m.list.Select(i)
			return
		}
	}
}

// sync copies a freshly rendered frame into the list.
func (m *Model) sync() {
	if !m.frame.fresh {
		return
	}
	m.frame.fresh = false
	rows := m.frame.v.Rows
	items := make([]list.Item, len(rows))
	for i, r := range rows {
		items[i] = rowItem{row: r}
	}
	idx := m.list.Index()
	m.list.SetItems(items)
	if idx >= len(items) {
		idx = len(items) - 1
	}
	if idx >= 0 {
		m.list.Select(idx)
	}
}

func (m *Model) resize() {
	reserved := 6
	if m.mode != modeBrowse {
		reserved += 5
	}
	if m.help.ShowAll {
		reserved += 3
	}
	h := m.height - reserved
	if h < 3 {
		h = 3
	}
	m.list.SetSize(m.width-4, h)
	m.help.Width = m.width - 4
	m.text.Width = m.width - 16
}

func (m Model) View() string {
	t := m.theme
	v := m.frame.v

	var b strings.Builder
	b.WriteString(m.header(v))
	b.WriteString("\n\n")
	if v.Empty() {
		b.WriteString(t.Muted.Render(emptyMessage(v.Filter)))
		b.WriteString("\n")
	} else {
		b.WriteString(m.list.View())
		b.WriteString("\n")
	}
	b.WriteString(m.footer(v))
	if m.mode != modeBrowse {
		b.WriteString("\n")
		b.WriteString(m.form(v))
	}
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.status)
	}
	b.WriteString("\n")
	if m.mode == modeBrowse {
		b.WriteString(m.help.View(browseKeys{m.keys}))
	} else {
		b.WriteString(m.help.View(formKeys{k: m.keys, edit: m.mode == modeEdit}))
	}
	return t.PanelString(b.String())
}

func (m Model) header(v view.View) string {
	t := m.theme
	all := t.BoxUnchecked
	if v.SelectAll {
		all = t.BoxChecked
	}
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d   %s",
		t.Title.Render("Todos"),
		t.Success.Render(t.SymDone), v.Stats.Completed,
		t.Pending.Render(t.SymPending), v.Stats.Pending,
		t.Accent.Render("Total"), v.Stats.Total,
		t.Muted.Render(all+" all"),
	)
}

func (m Model) footer(v view.View) string {
	t := m.theme
	parts := []string{v.CountLabel, "filter: " + string(v.Filter)}
	if v.Selected > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", v.Selected))
	}
	if id, ok := m.mgr.Dragging(); ok {
		parts = append(parts, fmt.Sprintf("moving #%d (m to drop, esc to cancel)", id))
	}
	return t.Help.Render(strings.Join(parts, "  ·  "))
}

func (m Model) form(v view.View) string {
	t := m.theme
	title := "Add todo"
	if m.mode == modeEdit {
		title = "Edit todo"
	}
	lines := []string{t.Title.Render(title), m.text.View()}
	counter := fmt.Sprintf("%d/%d", utf8.RuneCountInString(m.text.Value()), model.MaxTextLen)
	if m.mode == modeAdd {
		lines = append(lines,
			m.due.View(),
			fmt.Sprintf("priority: %s   %s",
				t.PriorityStyle(m.priority.Class()).Render(m.priority.Label()),
				t.Muted.Render(counter)))
	} else {
		lines = append(lines, t.Muted.Render(counter))
	}
	if v.Validation != "" {
		lines = append(lines, t.Error.Render(v.Validation))
	}
	return lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(t.BorderColor).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

func emptyMessage(f model.Filter) string {
	switch f {
	case model.FilterActive:
		return "Nothing left to do."
	case model.FilterCompleted:
		return "Nothing completed yet."
	}
	return "No todos yet. Press a to add one."
}

// Options configures the TUI programs.
type Options struct {
	Theme         ui.Theme
	Presets       []string
	StatsInterval time.Duration
	Now           func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Theme.Name == "" {
		o.Theme = ui.ThemeByName("classic")
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.StatsInterval <= 0 {
		o.StatsInterval = time.Second
	}
	return o
}
