package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAskCmd(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "ask <message...>",
		Short: "Answer one catalog question",
		Example: `  paintassist ask "How much is A119 in 18 Ltr (Drum)?"
  paintassist ask tell me about road marking paint`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.build(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			reply := a.Assistant.Chat(cmd.Context(), strings.Join(args, " "))

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(reply)
			}
			_, err = fmt.Fprintln(out, reply.Reply)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the structured resolution")
	return cmd
}
