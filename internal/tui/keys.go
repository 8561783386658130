package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle       key.Binding
	Select       key.Binding
	SelectAll    key.Binding
	Add          key.Binding
	Edit         key.Binding
	Delete       key.Binding
	BulkComplete key.Binding
	BulkDelete   key.Binding
	Filter       key.Binding
	Drag         key.Binding
	MoveUp       key.Binding
	MoveDown     key.Binding
	Help         key.Binding
	Quit         key.Binding

	// form
	Submit   key.Binding
	Cancel   key.Binding
	NextIn   key.Binding
	Priority key.Binding
	Preset   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Toggle:       key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "done")),
		Select:       key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "select")),
		SelectAll:    key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "select all")),
		Add:          key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:         key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete:       key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		BulkComplete: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "complete selected")),
		BulkDelete:   key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete selected")),
		Filter:       key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
		Drag:         key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "pick up/drop")),
		MoveUp:       key.NewBinding(key.WithKeys("K"), key.WithHelp("K", "move up")),
		MoveDown:     key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "move down")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		NextIn:   key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "text/due")),
		Priority: key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "priority")),
		Preset:   key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "preset")),
	}
}

// browseKeys is the help.KeyMap shown while browsing the list.
type browseKeys struct{ k keyMap }

func (b browseKeys) ShortHelp() []key.Binding {
	return []key.Binding{b.k.Toggle, b.k.Add, b.k.Edit, b.k.Delete, b.k.Filter, b.k.Help, b.k.Quit}
}

func (b browseKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{b.k.Toggle, b.k.Add, b.k.Edit, b.k.Delete},
		{b.k.Select, b.k.SelectAll, b.k.BulkComplete, b.k.BulkDelete},
		{b.k.Filter, b.k.Drag, b.k.MoveUp, b.k.MoveDown},
		{b.k.Help, b.k.Quit},
	}
}

// formKeys is shown while the add or edit form has focus.
type formKeys struct {
	k    keyMap
	edit bool
}

func (f formKeys) ShortHelp() []key.Binding {
	if f.edit {
		return []key.Binding{f.k.Submit, f.k.Cancel}
	}
	return []key.Binding{f.k.Submit, f.k.Cancel, f.k.NextIn, f.k.Priority, f.k.Preset}
}

func (f formKeys) FullHelp() [][]key.Binding { return [][]key.Binding{f.ShortHelp()} }
