package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the TUI key bindings
type keyMap struct {
	Quit     key.Binding
	Help     key.Binding
	Next     key.Binding
	Prev     key.Binding
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Toggle   key.Binding
	Select   key.Binding
	Back     key.Binding
	Upload   key.Binding
	New      key.Binding
	Delete   key.Binding
	ClearBnd key.Binding
	Clear    key.Binding
	More     key.Binding
	Alerts   key.Binding
	Refresh  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next panel")),
		Prev:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous panel")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous day")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next day")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "previous month")),
		PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdown", "next month")),
		Toggle:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle filter")),
		Select:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open/select")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Upload:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "upload patient file")),
		New:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new category")),
		Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		ClearBnd: key.NewBinding(key.WithKeys("x", "backspace"), key.WithHelp("x", "clear date")),
		Clear:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear filters")),
		More:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "show more")),
		Alerts:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "generate alerts")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Toggle, k.Select, k.Clear, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Up, k.Down},
		{k.Toggle, k.Select, k.Back, k.More},
		{k.Upload, k.New, k.Delete, k.Alerts},
		{k.Left, k.Right, k.PageUp, k.PageDown, k.ClearBnd},
		{k.Clear, k.Refresh, k.Help, k.Quit},
	}
}
