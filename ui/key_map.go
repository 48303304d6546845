package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	moveUp       key.Binding
	moveDown     key.Binding
	nextPage     key.Binding
	previousPage key.Binding

	descend key.Binding
	ascend  key.Binding

	toggleHelp key.Binding

	quit key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.descend, k.ascend, k.toggleHelp, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.moveUp, k.moveDown, k.nextPage, k.previousPage},
		{k.descend, k.ascend},
		{k.toggleHelp, k.quit},
	}
}

func defaultKeyMap() keyMap {
	return keyMap{
		moveUp: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑", "move up in list"),
		),
		moveDown: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓", "move down in list"),
		),
		nextPage: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "next page"),
		),
		previousPage: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "previous page"),
		),
		descend: key.NewBinding(
			key.WithKeys("enter", "right"),
			key.WithHelp("→", "open list or dictionary"),
		),
		ascend: key.NewBinding(
			key.WithKeys("backspace", "left"),
			key.WithHelp("←", "go to parent"),
		),
		toggleHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
