package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Akhyarrrrr/Automasi-SPTJM/internal/assemble"
	"github.com/Akhyarrrrr/Automasi-SPTJM/internal/batch"
	"github.com/Akhyarrrrr/Automasi-SPTJM/internal/converter"
	"github.com/Akhyarrrrr/Automasi-SPTJM/internal/excel"
	"github.com/Akhyarrrrr/Automasi-SPTJM/internal/report"
	"go.uber.org/zap"
)

// loadEntries reads one sheet of the workbook at path, validates its
// columns and assembles the person list.
func loadEntries(path, sheet string) ([]assemble.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}

	reader := excel.NewReader(logger)
	if sheet == "" {
		names, err := reader.SheetNames(data)
		if err != nil {
			return nil, err
		}
		sheet = names[0]
	}

	table, err := reader.ReadSheet(data, sheet)
	if err != nil {
		return nil, err
	}
	if ok, msg := excel.ValidateRequired(table, false); !ok {
		return nil, fmt.Errorf("%s", msg)
	}

	return assemble.NewAssembler(logger).People(table)
}

// loadMapping reads a NIP→email mapping workbook; an empty path yields
// an empty map.
func loadMapping(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping workbook: %w", err)
	}
	reader := excel.NewReader(logger)
	names, err := reader.SheetNames(data)
	if err != nil {
		return nil, err
	}
	table, err := reader.ReadSheet(data, names[0])
	if err != nil {
		return nil, err
	}
	return excel.BuildEmailMap(table, logger)
}

// runGeneration assembles and converts everything in the workbook.
func runGeneration(ctx context.Context, input, sheet string) (*batch.GenerateResult, error) {
	entries, err := loadEntries(input, sheet)
	if err != nil {
		return nil, err
	}
	logger.Info("Workbook loaded",
		zap.String("input", input),
		zap.Int("people", len(entries)))

	conv := converter.NewConverter(cfg.Converter.SofficePath, cfg.Converter.Timeout, logger)
	return batch.NewOrchestrator(conv, logger).Generate(ctx, entries)
}

// writeReportCSV writes a run report next to the other outputs.
func writeReportCSV(path string, rep *report.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()
	return rep.WriteCSV(f)
}
