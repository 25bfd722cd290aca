package main

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
)

// confirmCommand asks before executing a "!" value through the shell. Only
// wired up when stdin is a terminal; piped invocations run unattended.
func confirmCommand(command string) (bool, error) {
	ok := false
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("Execute command %q?", command),
		Default: false,
	}
	if err := survey.AskOne(prompt, &ok); err != nil {
		return false, err
	}
	return ok, nil
}
