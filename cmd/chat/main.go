// Command chat is a terminal front end for the chat server. It keeps the
// session locally, ends it on a termination phrase, and sends every other
// message to the server.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/excalibur-labs/helios-chat/internal/client"
	"github.com/excalibur-labs/helios-chat/internal/model"
	"github.com/excalibur-labs/helios-chat/internal/session"
	"github.com/excalibur-labs/helios-chat/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		serverURL string
		timeout   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with Helios from the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			responder := client.New(serverURL, timeout)
			controller := session.NewController(responder, nil, logger.NewNop())
			return runREPL(cmd.Context(), controller, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "http://localhost:3000", "chat server base URL")
	cmd.Flags().DurationVar(&timeout, "timeout", 60*time.Second, "per-request timeout")

	return cmd
}

// runREPL reads one message per line until the session ends or input runs out.
func runREPL(ctx context.Context, controller *session.Controller, in io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	s := session.New("")
	scanner := bufio.NewScanner(in)

	fmt.Fprint(out, "you> ")
	for scanner.Scan() {
		turn, err := controller.Submit(ctx, s, scanner.Text())
		switch {
		case errors.Is(err, session.ErrInvalidInput):
			fmt.Fprint(out, "you> ")
			continue
		case err != nil:
			return err
		}

		for _, msg := range turn.Messages {
			if msg.Role == model.RoleModel {
				fmt.Fprintf(out, "helios> %s\n", msg.Content)
			}
		}

		if turn.Ended() {
			fmt.Fprintln(out, "Conversation ended. Run chat again to start a new one.")
			return nil
		}
		fmt.Fprint(out, "you> ")
	}

	return scanner.Err()
}
