package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sumire/civic/internal/output"
	"github.com/sumire/civic/internal/service"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the assistant",
	Long: `Start an interactive conversation with the assistant. Mutations it
proposes are applied only after you answer yes. Type "exit" to leave.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		return chatLoop(cmd.Context(), service.NewConversation(a.Chat), cmd.InOrStdin(), ui)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

// chatLoop reads messages from in until EOF or "exit".
func chatLoop(ctx context.Context, conv *service.Conversation, in io.Reader, ui *output.UI) error {
	scanner := bufio.NewScanner(in)
	for {
		prompt := "you> "
		if conv.State() == service.GateAwaitingConfirmation {
			prompt = "you (yes/no)> "
		}
		fmt.Fprint(ui.Out, prompt)

		if !scanner.Scan() {
			fmt.Fprintln(ui.Out)
			return scanner.Err()
		}
		message := strings.TrimSpace(scanner.Text())
		switch message {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		resp, err := conv.Send(ctx, message)
		if err != nil {
			ui.Error("%v", err)
			continue
		}
		ui.Assistant(resp)
	}
}
