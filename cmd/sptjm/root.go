package main

import (
	"fmt"

	"github.com/Akhyarrrrr/Automasi-SPTJM/internal/config"
	"github.com/Akhyarrrrr/Automasi-SPTJM/pkg/utils"
	"github.com/spf13/cobra"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"
)

var (
	cfgFile string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "sptjm",
	Short: "Generate SPTJM statement PDFs from spreadsheet data and distribute them by email",
	Long: `sptjm turns a personnel spreadsheet into one signed-statement PDF per
person and optionally emails each PDF to its owner. Conversion to PDF
relies on a local LibreOffice (soffice) installation.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Credentials may live in a local .env; absence is fine.
		_ = gotenv.Load()

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		logger, err = utils.NewLogger(utils.LoggerConfig{
			Level:      cfg.Logger.Level,
			OutputPath: cfg.Logger.OutputPath,
			Format:     cfg.Logger.Format,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file (yaml)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(sendCmd)
}
