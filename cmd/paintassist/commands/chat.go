package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

const replPrompt = "> "

func newChatCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive question loop; type exit or quit to leave",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.build(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			products, prices := a.Index.Stats()
			fmt.Fprintf(out, "Paint assistant ready (%d products, %d price entries). Type 'exit' to quit.\n", products, prices)

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, replPrompt)
				if !scanner.Scan() {
					fmt.Fprintln(out)
					return scanner.Err()
				}

				line := strings.TrimSpace(scanner.Text())
				switch strings.ToLower(line) {
				case "exit", "quit":
					return nil
				}

				fmt.Fprintln(out, a.Assistant.Chat(cmd.Context(), line).Reply)
			}
		},
	}
}
