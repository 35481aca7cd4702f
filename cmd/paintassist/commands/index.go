package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paintassist/backend/internal/infrastructure/catalogfile"
	"github.com/paintassist/backend/internal/usecase"
)

const defaultChunksPath = "data/chunks.json"

func newBuildIndexCmd(opts *options) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "build-index",
		Short: "Write retrieval chunks built from the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				out = opts.cfg.Data.ChunksPath
			}
			if out == "" {
				out = defaultChunksPath
			}

			// Chunks are always rebuilt from the documents, never from an old chunk file
			opts.cfg.Data.ChunksPath = ""
			a, err := opts.build(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			chunks := usecase.BuildChunks(a.Index)
			if err := catalogfile.WriteChunks(out, chunks); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d chunks to %s\n", len(chunks), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default data.chunks_path or "+defaultChunksPath+")")
	return cmd
}
