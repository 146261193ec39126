package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the browser.
type keyMap struct {
	Quit   key.Binding
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Back   key.Binding
	Retry  key.Binding

	OpenIMDb       key.Binding
	OpenRT         key.Binding
	OpenAudience   key.Binding
	OpenMetacritic key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("↓", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Retry: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "retry"),
		),
		OpenIMDb: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "IMDb"),
		),
		OpenRT: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Rotten Tomatoes"),
		),
		OpenAudience: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "RT audience"),
		),
		OpenMetacritic: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "Metacritic"),
		),
	}
}

// searchHelp and detailHelp list the bindings shown in the footer.
func (k keyMap) searchHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Retry, k.Quit}
}

func (k keyMap) detailHelp() []key.Binding {
	return []key.Binding{k.Back, k.OpenIMDb, k.OpenRT, k.OpenAudience, k.OpenMetacritic, k.Retry, k.Quit}
}
