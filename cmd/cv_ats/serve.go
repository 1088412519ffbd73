package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jonathan/cv-ats/internal/server"
	"github.com/jonathan/cv-ats/internal/server/ratelimit"
	"github.com/jonathan/cv-ats/internal/store"
	"github.com/jonathan/cv-ats/internal/unlock"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long:  `Start an HTTP server exposing the résumé export, scoring, extraction, writing and unlock endpoints.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts, v)
		},
	}

	cmd.Flags().Int("port", 8080, "Port to listen on")
	cmd.Flags().String("store", "", "Store driver: memory, sqlite or postgres")
	_ = v.BindPFlag("http.port", cmd.Flags().Lookup("port"))
	_ = v.BindPFlag("store.driver", cmd.Flags().Lookup("store"))

	return cmd
}

func runServe(cmd *cobra.Command, opts *rootOptions, v *viper.Viper) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(ctx, opts, v)
	if err != nil {
		return err
	}

	st, err := store.Open(ctx, cfg.Store.StoreOptions())
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()
	go store.RunJanitor(ctx, st, cfg.Store.PurgeInterval)

	unlockSvc, err := newUnlockService(cfg, st)
	if err != nil {
		return err
	}

	generator, client, err := newGenerator(ctx, cfg)
	if err != nil {
		return err
	}
	if client != nil {
		defer client.Close()
	} else {
		log.Println("[serve] no LLM API key configured; improve and create are disabled")
	}

	srv, err := server.New(server.Config{
		Port:            cfg.HTTP.Port,
		AllowedOrigins:  cfg.HTTP.AllowedOrigins,
		MaxBodyBytes:    cfg.HTTP.MaxBodyBytes,
		RequireUnlock:   cfg.Unlock.Require,
		PostbackSecret:  cfg.CPA.PostbackSecret,
		TranscodePhotos: cfg.Photo.Transcode,
		Unlock:          unlockSvc,
		Offers:          unlock.NewCatalog(cfg.CPA.Offers(), nil),
		Generator:       generator,
		RateLimit:       ratelimit.LoadConfig(),
		Quota:           ratelimit.NewQuota(st, cfg.Quota.Limit, cfg.Quota.Window),
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	log.Printf("[serve] store=%s require_unlock=%v", cfg.Store.Driver, cfg.Unlock.Require)
	return srv.Start(ctx)
}
