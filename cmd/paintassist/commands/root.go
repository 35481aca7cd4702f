package commands

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/paintassist/backend/config"
	"github.com/paintassist/backend/internal/app"
	"github.com/paintassist/backend/internal/infrastructure/logger"
)

// options are shared by every subcommand
type options struct {
	productsPath string
	pricesPath   string
	verbose      bool

	cfg *config.Config
}

// NewRootCmd builds the paintassist command tree
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "paintassist",
		Short: "Paint catalog assistant",
		Long: `paintassist answers product and price questions about the paint catalog,
builds the retrieval index and checks the catalog documents for defects.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	root.PersistentFlags().StringVar(&opts.productsPath, "products", "", "product metadata JSON (overrides data.products_path)")
	root.PersistentFlags().StringVar(&opts.pricesPath, "prices", "", "price list JSON (overrides data.prices_path)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newAskCmd(opts), newChatCmd(opts), newBuildIndexCmd(opts), newValidateCmd(opts))
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func (o *options) load(cmd *cobra.Command) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if o.productsPath != "" {
		cfg.Data.ProductsPath = o.productsPath
	}
	if o.pricesPath != "" {
		cfg.Data.PricesPath = o.pricesPath
	}

	level := "warn"
	if o.verbose {
		level = "debug"
	}
	logger.Init(logger.Options{
		Environment: logger.ParseEnvironment(cfg.Server.Environment),
		Level:       level,
		Format:      "console",
		Output:      cmd.ErrOrStderr(),
	})

	o.cfg = cfg
	return nil
}

func (o *options) build(ctx context.Context) (*app.App, error) {
	return app.Build(ctx, o.cfg)
}
