package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jonathan/cv-ats/internal/config"
	"github.com/jonathan/cv-ats/internal/generation"
	"github.com/jonathan/cv-ats/internal/llm"
	"github.com/jonathan/cv-ats/internal/store"
	"github.com/jonathan/cv-ats/internal/unlock"
)

// loadConfig resolves configuration, letting flags already bound on v win.
func loadConfig(ctx context.Context, opts *rootOptions, v *viper.Viper) (*config.Config, error) {
	if opts.configFile != "" {
		v.SetConfigFile(opts.configFile)
	}
	return config.Load(ctx, v)
}

// newUnlockService builds the unlock service with tokens when a secret is set.
func newUnlockService(cfg *config.Config, st store.Store) (*unlock.Service, error) {
	var issuer *unlock.TokenIssuer
	if cfg.Unlock.Token.Enabled() {
		var err error
		issuer, err = unlock.NewTokenIssuer(cfg.Unlock.Token.Secret, cfg.Unlock.Token.TTL())
		if err != nil {
			return nil, fmt.Errorf("failed to create token issuer: %w", err)
		}
	}
	return unlock.NewService(st, unlock.Config{
		Codes:      cfg.Unlock.Codes,
		CodeHashes: cfg.Unlock.CodeHashes,
		UnlockTTL:  cfg.Unlock.TTL,
		Tokens:     issuer,
	}), nil
}

// newGenerator returns nil, nil when no model API key is configured.
func newGenerator(ctx context.Context, cfg *config.Config) (*generation.Generator, llm.Client, error) {
	if cfg.LLM.APIKey == "" {
		return nil, nil, nil
	}
	llmCfg := llm.DefaultConfig().WithModel(cfg.LLM.Model).WithTemperature(cfg.LLM.Temperature)
	client, err := llm.NewClient(ctx, llmCfg, cfg.LLM.APIKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return generation.New(client), client, nil
}

// readInput reads path, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// writeOutput writes data to path, or to the command's stdout when path is
// empty or "-".
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// photoDataURL encodes an image file as the data URL the API accepts.
func photoDataURL(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read photo: %w", err)
	}
	mime := http.DetectContentType(data)
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
