package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Akhyarrrrr/Automasi-SPTJM/internal/model"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	generateInput  string
	generateSheet  string
	generateOutDir string
	generateZip    bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one SPTJM PDF per person from a workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := os.MkdirAll(generateOutDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		result, err := runGeneration(cmd.Context(), generateInput, generateSheet)
		if err != nil {
			return err
		}

		for _, item := range result.Items {
			path := filepath.Join(generateOutDir, item.Filename)
			if err := os.WriteFile(path, item.PDF, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", item.Filename, err)
			}
		}
		if generateZip {
			path := filepath.Join(generateOutDir, fmt.Sprintf("SPTJM_%s.zip", result.BatchID))
			if err := os.WriteFile(path, result.Archive, 0644); err != nil {
				return fmt.Errorf("failed to write archive: %w", err)
			}
		}
		if err := writeReportCSV(filepath.Join(generateOutDir, "laporan_generate.csv"), result.Report); err != nil {
			return err
		}

		ok := result.Report.CountStatus(model.StatusOK)
		fail := result.Report.CountStatus(model.StatusFail)
		logger.Info("Generation finished",
			zap.String("batch_id", result.BatchID),
			zap.String("out_dir", generateOutDir),
			zap.Int("ok", ok),
			zap.Int("fail", fail))

		if fail > 0 {
			return fmt.Errorf("%d of %d documents failed; see laporan_generate.csv", fail, ok+fail)
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVarP(&generateInput, "input", "i", "", "source workbook (xlsx)")
	generateCmd.Flags().StringVarP(&generateSheet, "sheet", "s", "", "sheet name (default: first sheet)")
	generateCmd.Flags().StringVarP(&generateOutDir, "out", "o", "out", "output directory")
	generateCmd.Flags().BoolVar(&generateZip, "zip", false, "also write a zip archive of all PDFs")
	generateCmd.MarkFlagRequired("input")
}
