package email

import (
	"context"

	"github.com/Akhyarrrrr/Automasi-SPTJM/internal/batch"
	"github.com/Akhyarrrrr/Automasi-SPTJM/internal/model"
	"github.com/Akhyarrrrr/Automasi-SPTJM/internal/report"
	"go.uber.org/zap"
)

// Transport is the send-one capability the distributor consumes;
// satisfied by Sender.
type Transport interface {
	Send(ctx context.Context, msg Message) error
}

// Options parameterizes one distribution run
type Options struct {
	SubjectTemplate string
	BodyTemplate    string
	DryRun          bool
	// EmailMap is the NIP→email fallback, consulted only when the
	// person carries no validated address of their own.
	EmailMap map[string]string
}

// Distributor sends generated statements to their recipients
type Distributor struct {
	transport Transport
	logger    *zap.Logger
}

// NewDistributor creates a new Distributor. The transport may be nil
// only for dry runs, which never touch it.
func NewDistributor(transport Transport, logger *zap.Logger) *Distributor {
	return &Distributor{transport: transport, logger: logger}
}

// Distribute processes the generated items sequentially, one report row
// each: SKIP when no recipient resolves, DRY-RUN without any transport
// call when opts.DryRun is set, otherwise OK or FAIL per send. A failed
// recipient never aborts the run.
func (d *Distributor) Distribute(ctx context.Context, items []batch.GeneratedItem, opts Options) *report.Report {
	rep := report.New()

	d.logger.Info("Starting email distribution",
		zap.Int("total", len(items)),
		zap.Bool("dry_run", opts.DryRun))

	for i, item := range items {
		person := item.Person
		to := d.resolveRecipient(person, opts.EmailMap)

		d.logger.Info("Processing recipient",
			zap.Int("index", i+1),
			zap.Int("total", len(items)),
			zap.String("nip", person.NIP),
			zap.String("to", to))

		if to == "" {
			rep.Add(model.ResultRow{
				Nama:    person.Nama,
				NIP:     person.NIP,
				Status:  model.StatusSkip,
				Message: "Email kosong/invalid",
			})
			continue
		}

		if opts.DryRun {
			rep.Add(model.ResultRow{
				Nama:    person.Nama,
				NIP:     person.NIP,
				Email:   to,
				Status:  model.StatusDryRun,
				Message: "Simulasi kirim email",
			})
			continue
		}

		err := d.transport.Send(ctx, Message{
			To:             to,
			Subject:        RenderTemplate(opts.SubjectTemplate, person.Nama, person.NIP),
			Body:           RenderTemplate(opts.BodyTemplate, person.Nama, person.NIP),
			AttachmentName: item.Filename,
			Attachment:     item.PDF,
		})
		if err != nil {
			d.logger.Error("Send failed",
				zap.String("nip", person.NIP),
				zap.String("to", to),
				zap.Error(err))
			rep.Add(model.ResultRow{
				Nama:    person.Nama,
				NIP:     person.NIP,
				Email:   to,
				Status:  model.StatusFail,
				Message: err.Error(),
			})
			continue
		}

		rep.Add(model.ResultRow{
			Nama:    person.Nama,
			NIP:     person.NIP,
			Email:   to,
			Status:  model.StatusOK,
			Message: "Email terkirim",
		})
	}

	d.logger.Info("Email distribution finished",
		zap.Int("ok", rep.CountStatus(model.StatusOK)),
		zap.Int("fail", rep.CountStatus(model.StatusFail)),
		zap.Int("skip", rep.CountStatus(model.StatusSkip)),
		zap.Int("dry_run", rep.CountStatus(model.StatusDryRun)))

	return rep
}

// resolveRecipient prefers the person's own validated address; the
// mapping is a fallback only and never overrides it.
func (d *Distributor) resolveRecipient(person model.Person, emailMap map[string]string) string {
	if person.Email != "" {
		return person.Email
	}
	return emailMap[person.NIP]
}
