package session

import (
	"strings"

	"github.com/manifoldco/promptui"
)

// Prompter abstracts the interactive prompts so the menu flows can be
// tested with scripted answers.
type Prompter interface {
	// Select shows a menu and returns the chosen index and item.
	Select(label string, items []string) (int, string, error)

	// Input asks for a line of text. def is offered as the default,
	// validate may be nil.
	Input(label, def string, validate func(string) error) (string, error)

	// Confirm asks a yes/no question.
	Confirm(label string, def bool) (bool, error)
}

// UIPrompter implements Prompter with promptui.
type UIPrompter struct{}

// NewUIPrompter creates the terminal-backed Prompter.
func NewUIPrompter() *UIPrompter {
	return &UIPrompter{}
}

// Select shows an arrow-key menu.
func (p *UIPrompter) Select(label string, items []string) (int, string, error) {
	sel := promptui.Select{
		Label: label,
		Items: items,
		Size:  len(items),
	}
	return sel.Run()
}

// Input asks for a line of text.
func (p *UIPrompter) Input(label, def string, validate func(string) error) (string, error) {
	prompt := promptui.Prompt{
		Label:    label,
		Default:  def,
		Validate: validate,
	}
	value, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

// Confirm asks a yes/no question. promptui reports a declined confirm
// as ErrAbort, which is a "no", not a failure.
func (p *UIPrompter) Confirm(label string, def bool) (bool, error) {
	d := "n"
	if def {
		d = "y"
	}
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Default:   d,
	}
	_, err := prompt.Run()
	if err == promptui.ErrAbort {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// isExit reports whether err means the user wants out (Ctrl-C / Ctrl-D).
func isExit(err error) bool {
	return err == promptui.ErrInterrupt || err == promptui.ErrEOF
}
