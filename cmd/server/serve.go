package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ahsanfayaz52/noteservice/internal/accounts"
	"github.com/ahsanfayaz52/noteservice/internal/auth"
	"github.com/ahsanfayaz52/noteservice/internal/db"
	"github.com/ahsanfayaz52/noteservice/internal/handlers"
	"github.com/ahsanfayaz52/noteservice/internal/notes"
	"github.com/ahsanfayaz52/noteservice/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		dbConn, err := openDB(ctx, cfg)
		if err != nil {
			return err
		}
		defer dbConn.Close()
		if err := db.Migrate(ctx, dbConn, cfg.DBDriver); err != nil {
			return err
		}
		log.Info().Str("driver", cfg.DBDriver).Msg("DB connected successfully")

		jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)
		router := handlers.NewRouter(handlers.Deps{
			Log:      log,
			JWT:      jwtService,
			Notes:    notes.NewService(notes.StoreScoper(store.NewNoteStore(dbConn))),
			Accounts: accounts.NewService(store.NewUserStore(dbConn), jwtService, cfg.AdminEmails),
		})

		srv := &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info().Str("port", cfg.Port).Msg("Server listening")
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		log.Info().Msg("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}
