// Package batch drives document generation over an assembled person
// list with per-item failure isolation: one bad record degrades to a
// report row, never aborts the run.
package batch

import (
	"context"
	"time"

	"github.com/Akhyarrrrr/Automasi-SPTJM/internal/assemble"
	"github.com/Akhyarrrrr/Automasi-SPTJM/internal/document"
	"github.com/Akhyarrrrr/Automasi-SPTJM/internal/model"
	"github.com/Akhyarrrrr/Automasi-SPTJM/internal/report"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DocumentConverter is the converter capability the orchestrator
// consumes; satisfied by converter.Converter.
type DocumentConverter interface {
	Convert(ctx context.Context, docxBytes []byte) ([]byte, error)
}

// GeneratedItem is one successfully produced statement.
type GeneratedItem struct {
	Filename string
	PDF      []byte
	Person   model.Person
}

// GenerateResult is the outcome of one generation run. The archive
// holds exactly the Items; its entry count always equals the number of
// OK report rows.
type GenerateResult struct {
	BatchID string
	Items   []GeneratedItem
	Report  *report.Report
	Archive []byte
}

// Orchestrator runs generation batches sequentially
type Orchestrator struct {
	converter DocumentConverter
	logger    *zap.Logger
	now       func() time.Time
}

// NewOrchestrator creates a new Orchestrator
func NewOrchestrator(converter DocumentConverter, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		converter: converter,
		logger:    logger,
		now:       time.Now,
	}
}

// Generate builds, renders and converts one statement per entry, in
// input order. Build or convert errors are recorded as FAIL rows with
// the causing message and the batch moves on. The archive is assembled
// only after every item's bytes are fully in hand.
func (o *Orchestrator) Generate(ctx context.Context, entries []assemble.Entry) (*GenerateResult, error) {
	batchID := uuid.NewString()
	execTime := o.now()
	rep := report.New()

	o.logger.Info("Starting generation batch",
		zap.String("batch_id", batchID),
		zap.Int("total", len(entries)))

	var items []GeneratedItem
	for i, entry := range entries {
		person := entry.Person

		o.logger.Info("Generating statement",
			zap.String("batch_id", batchID),
			zap.Int("index", i+1),
			zap.Int("total", len(entries)),
			zap.String("nama", person.Nama),
			zap.String("nip", person.NIP))

		pdf, err := o.generateOne(ctx, entry, execTime)
		if err != nil {
			o.logger.Error("Statement generation failed",
				zap.String("nip", person.NIP),
				zap.Error(err))
			rep.Add(model.ResultRow{
				Nama:    person.Nama,
				NIP:     person.NIP,
				Email:   person.Email,
				Status:  model.StatusFail,
				Message: err.Error(),
			})
			continue
		}

		items = append(items, GeneratedItem{
			Filename: FilenameFor(person),
			PDF:      pdf,
			Person:   person,
		})
		rep.Add(model.ResultRow{
			Nama:    person.Nama,
			NIP:     person.NIP,
			Email:   person.Email,
			Status:  model.StatusOK,
			Message: "PDF dibuat",
		})
	}

	archive, err := BuildArchive(items)
	if err != nil {
		return nil, err
	}

	o.logger.Info("Generation batch finished",
		zap.String("batch_id", batchID),
		zap.Int("ok", rep.CountStatus(model.StatusOK)),
		zap.Int("fail", rep.CountStatus(model.StatusFail)))

	return &GenerateResult{
		BatchID: batchID,
		Items:   items,
		Report:  rep,
		Archive: archive,
	}, nil
}

func (o *Orchestrator) generateOne(ctx context.Context, entry assemble.Entry, execTime time.Time) ([]byte, error) {
	statement := document.BuildStatement(entry.Person, entry.Items, execTime)
	docxBytes, err := document.RenderDocx(statement)
	if err != nil {
		return nil, err
	}
	return o.converter.Convert(ctx, docxBytes)
}
