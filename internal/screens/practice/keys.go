package practice

import (
	"charm.land/bubbles/v2/key"
)

type keyMap struct {
	Digit    key.Binding
	Delete   key.Binding
	Negative key.Binding
	Submit   key.Binding
	Skip     key.Binding
	Quit     key.Binding
	Yes      key.Binding
	No       key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Digit: key.NewBinding(
			key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("0-9", "type"),
		),
		Delete: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("⌫", "delete"),
		),
		Negative: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "negative"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter", "space"),
			key.WithHelp("Enter", "check"),
		),
		Skip: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "skip"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "stop"),
		),
		Yes: key.NewBinding(key.WithKeys("y", "Y")),
		No:  key.NewBinding(key.WithKeys("n", "N", "esc")),
	}
}
