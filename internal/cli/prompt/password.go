package prompt

import (
	"github.com/manifoldco/promptui"
)

// Password prompts for a secret with masked input. The value is never
// echoed to the terminal.
func Password(label string) (string, error) {
	prompt := promptui.Prompt{
		Label: label,
		Mask:  '*',
	}

	result, err := prompt.Run()
	return result, wrapError(err)
}
