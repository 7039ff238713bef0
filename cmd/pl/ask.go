package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jotpotato/pathlib/internal/assistant"
	"github.com/jotpotato/pathlib/internal/config"
	"github.com/jotpotato/pathlib/internal/ui"
)

var askCmd = &cobra.Command{
	Use:     "ask <path-id> <question...>",
	GroupID: "library",
	Short:   "Ask the assistant about a path",
	Long: `Ask a free-text question about a path. The assistant classifies the
question (status, blockers, due dates, completed work, team, phases)
and answers from the plan data. Classification is deterministic
keyword matching; no network calls.`,
	Example: `  pl ask path-1a2b3c4d "what's the status?"
  pl ask path-1a2b3c4d "who is working on this?"
  pl ask path-1a2b3c4d "anything due soon?"`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureBackend(); err != nil {
			return err
		}
		question := strings.Join(args[1:], " ")

		var ans *assistant.Answer
		var err error
		if daemonClient != nil {
			ans, err = daemonClient.Ask(args[0], question)
		} else {
			ans, err = lib.Ask(rootCtx, args[0], question)
		}
		if err != nil {
			return err
		}

		if outputResult(ans) {
			return nil
		}
		if config.GetBool("assistant.render") {
			fmt.Print(ui.RenderMarkdown(ans.AnswerText, ui.GetWidth()))
		} else {
			fmt.Println(ans.AnswerText)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
