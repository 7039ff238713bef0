package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// PromptYesNo asks a yes/no question on stdout and reads one line from
// stdin. Empty or unrecognized input takes the default, as does a
// non-interactive session, so scripted runs never hang on a prompt.
func PromptYesNo(question string, defaultYes bool) bool {
	return promptYesNo(question, defaultYes, IsTerminal(), os.Stdin, os.Stdout)
}

func promptYesNo(question string, defaultYes bool, interactive bool, in io.Reader, out io.Writer) bool {
	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}

	if !interactive {
		fmt.Fprintf(out, "%s %s (non-interactive, assuming %s)\n", question, hint, yesNoWord(defaultYes))
		return defaultYes
	}

	fmt.Fprintf(out, "%s %s ", question, hint)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil {
		return defaultYes
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	}
	return defaultYes
}

func yesNoWord(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
