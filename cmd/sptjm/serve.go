package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Akhyarrrrr/Automasi-SPTJM/internal/assemble"
	"github.com/Akhyarrrrr/Automasi-SPTJM/internal/batch"
	"github.com/Akhyarrrrr/Automasi-SPTJM/internal/converter"
	"github.com/Akhyarrrrr/Automasi-SPTJM/internal/email"
	"github.com/Akhyarrrrr/Automasi-SPTJM/internal/excel"
	"github.com/Akhyarrrrr/Automasi-SPTJM/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP session server",
	RunE: func(cmd *cobra.Command, args []string) error {
		conv := converter.NewConverter(cfg.Converter.SofficePath, cfg.Converter.Timeout, logger)
		if _, err := converter.FindSoffice(cfg.Converter.SofficePath); err != nil {
			// Generation will fail without it, but uploads and sheet
			// inspection still work, so only warn here.
			logger.Warn("soffice not found at startup", zap.Error(err))
		}

		// The relay is dialed lazily: each send run validates the SMTP
		// configuration first, so the server runs fine without one.
		newTransport := func() (email.Transport, error) {
			return email.NewSender(cfg.SMTP, cfg.Email.Delay, cfg.Email.Retries, logger)
		}

		srv := server.NewServer(
			cfg,
			excel.NewReader(logger),
			assemble.NewAssembler(logger),
			batch.NewOrchestrator(conv, logger),
			newTransport,
			logger,
		)

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start()
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case sig := <-quit:
			logger.Info("Shutting down", zap.String("signal", sig.String()))
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		}
	},
}
