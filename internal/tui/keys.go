package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the keyboard bindings of the browser.
type keyMap struct {
	Quit     key.Binding
	Search   key.Binding
	Next     key.Binding
	Previous key.Binding
	Open     key.Binding
	Back     key.Binding
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding
}

// defaultKeyMap returns the default key bindings.
func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "highlight"),
		),
		Next: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next"),
		),
		Previous: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "previous"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open file"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "b"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "f", " "),
		),
		Top: key.NewBinding(
			key.WithKeys("home", "g"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("end", "G"),
		),
	}
}

func (k keyMap) help() []key.Binding {
	return []key.Binding{k.Search, k.Next, k.Previous, k.Open, k.Back, k.Quit}
}
