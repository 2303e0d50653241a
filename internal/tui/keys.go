package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit        key.Binding
	FocusSearch key.Binding
	Submit      key.Binding
	Back        key.Binding
	Up          key.Binding
	Down        key.Binding
	Open        key.Binding
	Save        key.Binding
	Goto        key.Binding
	Login       key.Binding
	Signup      key.Binding
	Logout      key.Binding
	NextField   key.Binding
	PrevField   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		FocusSearch: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Submit:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		Back:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Save:        key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
		Goto:        key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "open recipe")),
		Login:       key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "login")),
		Signup:      key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "sign up")),
		Logout:      key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "logout")),
		NextField:   key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		PrevField:   key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous field")),
	}
}

func helpLine(bindings ...key.Binding) string {
	out := ""
	for i, b := range bindings {
		if !b.Enabled() {
			continue
		}
		if i > 0 && out != "" {
			out += "  "
		}
		h := b.Help()
		out += h.Key + " " + h.Desc
	}
	return out
}
