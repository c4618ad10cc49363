package ui

import (
	"github.com/charmbracelet/huh"
)

// Input shows a single-line text prompt pre-filled with value.
func Input(title, description, value string) (string, error) {
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Description(description).
				Value(&value),
		),
	).Run()
	return value, err
}

// Confirm shows a yes/no confirmation prompt.
func Confirm(message string, value bool) (bool, error) {
	confirmed := value
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(message).
				Value(&confirmed),
		),
	).Run()
	return confirmed, err
}
