package main

import (
	"fmt"

	"github.com/Akhyarrrrr/Automasi-SPTJM/internal/email"
	"github.com/Akhyarrrrr/Automasi-SPTJM/internal/model"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	sendInput   string
	sendSheet   string
	sendMapping string
	sendReport  string
	sendConfirm bool
	sendDryRun  bool
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Generate the PDFs and email each one to its owner",
	Long: `send runs the full pipeline: generate every statement, then deliver
each PDF to the address from the workbook's email column or from a
separate NIP-to-email mapping workbook. Real delivery requires the
--confirm flag; --dry-run walks recipient resolution without sending.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !sendConfirm && !sendDryRun {
			return fmt.Errorf("refusing to send without --confirm (use --dry-run to rehearse)")
		}

		var transport email.Transport
		if !sendDryRun {
			sender, err := email.NewSender(cfg.SMTP, cfg.Email.Delay, cfg.Email.Retries, logger)
			if err != nil {
				return fmt.Errorf("mail relay not configured: %w", err)
			}
			transport = sender
		}

		emailMap, err := loadMapping(sendMapping)
		if err != nil {
			return err
		}

		result, err := runGeneration(cmd.Context(), sendInput, sendSheet)
		if err != nil {
			return err
		}
		if fail := result.Report.CountStatus(model.StatusFail); fail > 0 {
			logger.Warn("Some documents failed to generate and will not be sent",
				zap.Int("fail", fail))
		}

		rep := email.NewDistributor(transport, logger).Distribute(cmd.Context(), result.Items, email.Options{
			SubjectTemplate: cfg.Email.SubjectTemplate,
			BodyTemplate:    cfg.Email.BodyTemplate,
			DryRun:          sendDryRun,
			EmailMap:        emailMap,
		})

		if err := writeReportCSV(sendReport, rep); err != nil {
			return err
		}

		logger.Info("Distribution finished",
			zap.Bool("dry_run", sendDryRun),
			zap.String("report", sendReport),
			zap.Int("ok", rep.CountStatus(model.StatusOK)),
			zap.Int("fail", rep.CountStatus(model.StatusFail)),
			zap.Int("skip", rep.CountStatus(model.StatusSkip)))

		if fail := rep.CountStatus(model.StatusFail); fail > 0 {
			return fmt.Errorf("%d emails failed; see %s", fail, sendReport)
		}
		return nil
	},
}

func init() {
	sendCmd.Flags().StringVarP(&sendInput, "input", "i", "", "source workbook (xlsx)")
	sendCmd.Flags().StringVarP(&sendSheet, "sheet", "s", "", "sheet name (default: first sheet)")
	sendCmd.Flags().StringVarP(&sendMapping, "mapping", "m", "", "NIP-to-email mapping workbook (xlsx)")
	sendCmd.Flags().StringVar(&sendReport, "report", "laporan_kirim_email.csv", "email report output path")
	sendCmd.Flags().BoolVar(&sendConfirm, "confirm", false, "explicitly allow real email delivery")
	sendCmd.Flags().BoolVar(&sendDryRun, "dry-run", false, "resolve recipients without sending")
	sendCmd.MarkFlagRequired("input")
}
