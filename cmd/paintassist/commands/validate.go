package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paintassist/backend/internal/infrastructure/catalogfile"
)

var errDefectsFound = errors.New("catalog has defects")

func newValidateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the catalog documents for duplicate codes and malformed prices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			source := catalogfile.NewFileSource(opts.cfg.Data.ProductsPath, opts.cfg.Data.PricesPath)
			defects, err := source.Validate(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(defects) == 0 {
				fmt.Fprintln(out, "No defects found.")
				return nil
			}

			for _, d := range defects {
				fmt.Fprintln(out, d.String())
			}
			return fmt.Errorf("%w: %d", errDefectsFound, len(defects))
		},
	}
}
