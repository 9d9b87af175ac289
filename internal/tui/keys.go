package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the global bindings. Context-specific keys (digits for
// action buttons, table navigation) are handled inline.
type keyMap struct {
	Quit     key.Binding
	Search   key.Binding
	FixAll   key.Binding
	Fix      key.Binding
	Edit     key.Binding
	PrevPage key.Binding
	NextPage key.Binding
	Layout   key.Binding
	Upload   key.Binding
	Helpful  key.Binding
	NotHelp  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		FixAll:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "AI fix all")),
		Fix:      key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fix driver")),
		Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit driver")),
		PrevPage: key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "prev page")),
		NextPage: key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next page")),
		Layout:   key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "toggle layout")),
		Upload:   key.NewBinding(key.WithKeys("u", "enter"), key.WithHelp("u", "upload sample file")),
		Helpful:  key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "helpful")),
		NotHelp:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "not helpful")),
	}
}
