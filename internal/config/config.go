// Package config loads service configuration from defaults, an optional
// config file and the environment.
package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jonathan/cv-ats/internal/store"
	"github.com/jonathan/cv-ats/internal/unlock"
)

// Config is the resolved service configuration.
type Config struct {
	HTTP   HTTPConfig
	Store  StoreConfig
	Unlock UnlockConfig
	CPA    CPAConfig
	LLM    LLMConfig
	Quota  QuotaConfig
	Photo  PhotoConfig
}

type HTTPConfig struct {
	Port           int
	AllowedOrigins []string
	MaxBodyBytes   int64
}

type StoreConfig struct {
	Driver        string
	DSN           string
	PurgeInterval time.Duration
}

// StoreOptions converts to the store package's config.
func (c StoreConfig) StoreOptions() store.Config {
	return store.Config{Driver: c.Driver, DSN: c.DSN}
}

type UnlockConfig struct {
	Codes      []string
	CodeHashes []string
	Require    bool
	TTL        time.Duration
	BcryptCost int
	Token      TokenConfig
}

type CPAConfig struct {
	PostbackSecret string
	// OfferURLs maps offer id to its tracking link.
	OfferURLs map[string]string
}

// Offers returns the built-in offers with their configured links.
func (c CPAConfig) Offers() []unlock.Offer {
	offers := unlock.DefaultOffers()
	for i := range offers {
		offers[i].URL = c.OfferURLs[offers[i].ID]
	}
	return offers
}

type LLMConfig struct {
	APIKey      string
	Model       string
	Temperature float32
}

type QuotaConfig struct {
	Limit  int
	Window time.Duration
}

type PhotoConfig struct {
	Transcode bool
}

// applyDefaults seeds v with the option table and binds env aliases.
func applyDefaults(v *viper.Viper) error {
	for _, o := range GetConfigOptions() {
		v.SetDefault(o.Key, o.Default)
		if len(o.Env) == 0 {
			continue
		}
		names := append([]string{envName(o.Key)}, o.Env...)
		if err := v.BindEnv(append([]string{o.Key}, names...)...); err != nil {
			return fmt.Errorf("failed to bind env for %s: %w", o.Key, err)
		}
	}
	return nil
}

func envName(key string) string {
	return strings.ToUpper(EnvPrefix + "_" + strings.ReplaceAll(key, ".", "_"))
}

// Load resolves configuration with precedence: defaults < file < env.
// When no config file was set on v, cv_ats.{yaml,json,toml} is looked up in
// the working directory; a missing file is not an error.
func Load(ctx context.Context, v *viper.Viper) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	explicit := v.ConfigFileUsed() != ""
	if !explicit {
		v.SetConfigName("cv_ats")
		v.AddConfigPath(".")
	}

	if err := applyDefaults(v); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	purge, err := duration(v, "store.purge_interval")
	if err != nil {
		return nil, err
	}
	ttl, err := duration(v, "unlock.ttl")
	if err != nil {
		return nil, err
	}
	window, err := duration(v, "quota.window")
	if err != nil {
		return nil, err
	}

	offerURLs := make(map[string]string)
	for _, id := range defaultOfferIDs() {
		if u := strings.TrimSpace(v.GetString(offerURLKey(id))); u != "" {
			offerURLs[id] = u
		}
	}

	cfg := &Config{
		HTTP: HTTPConfig{
			Port:           v.GetInt("http.port"),
			AllowedOrigins: stringList(v, "http.allowed_origins"),
			MaxBodyBytes:   v.GetInt64("http.max_body_bytes"),
		},
		Store: StoreConfig{
			Driver:        strings.ToLower(strings.TrimSpace(v.GetString("store.driver"))),
			DSN:           v.GetString("store.dsn"),
			PurgeInterval: purge,
		},
		Unlock: UnlockConfig{
			Codes:      stringList(v, "unlock.codes"),
			CodeHashes: stringList(v, "unlock.code_hashes"),
			Require:    v.GetBool("unlock.require"),
			TTL:        ttl,
			BcryptCost: v.GetInt("unlock.bcrypt_cost"),
			Token: TokenConfig{
				Secret:          v.GetString("unlock.token.secret"),
				ExpirationHours: v.GetInt("unlock.token.expiration_hours"),
			},
		},
		CPA: CPAConfig{
			PostbackSecret: v.GetString("cpa.postback_secret"),
			OfferURLs:      offerURLs,
		},
		LLM: LLMConfig{
			APIKey:      v.GetString("llm.api_key"),
			Model:       v.GetString("llm.model"),
			Temperature: float32(v.GetFloat64("llm.temperature")),
		},
		Quota: QuotaConfig{
			Limit:  v.GetInt("quota.limit"),
			Window: window,
		},
		Photo: PhotoConfig{
			Transcode: v.GetBool("photo.transcode"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges. All problems are reported together.
func (c *Config) Validate() error {
	var problems []string

	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		problems = append(problems, fmt.Sprintf("http.port out of range: %d", c.HTTP.Port))
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		problems = append(problems, "http.max_body_bytes must be greater than 0")
	}
	switch c.Store.Driver {
	case "", store.DriverMemory:
	case store.DriverSQLite, store.DriverPostgres:
		if c.Store.DSN == "" {
			problems = append(problems, fmt.Sprintf("store.dsn is required for driver %s", c.Store.Driver))
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown store.driver %q", c.Store.Driver))
	}
	if c.Unlock.TTL <= 0 {
		problems = append(problems, "unlock.ttl must be greater than 0")
	}
	if c.Unlock.BcryptCost < 10 || c.Unlock.BcryptCost > 14 {
		problems = append(problems, fmt.Sprintf("unlock.bcrypt_cost out of range: %d (must be 10-14)", c.Unlock.BcryptCost))
	}
	if err := c.Unlock.Token.normalize(); err != nil {
		problems = append(problems, err.Error())
	}
	if c.Unlock.Require && !c.Unlock.Token.Enabled() {
		problems = append(problems, "unlock.require needs unlock.token.secret")
	}
	if c.Quota.Limit < 0 {
		problems = append(problems, "quota.limit must be non-negative")
	}
	if c.Quota.Window <= 0 {
		problems = append(problems, "quota.window must be greater than 0")
	}

	if len(problems) > 0 {
		return fmt.Errorf("config error: %s", strings.Join(problems, "; "))
	}
	return nil
}

func duration(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("config error: invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}

// stringList reads a list that may arrive as a slice from a file or as a
// comma-separated string from the environment. Blank entries are dropped.
func stringList(v *viper.Viper, key string) []string {
	var raw []string
	switch val := v.Get(key).(type) {
	case string:
		raw = strings.Split(val, ",")
	default:
		raw = v.GetStringSlice(key)
	}

	out := make([]string, 0, len(raw))
	for _, s := range raw {
		for _, part := range strings.Split(s, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func defaultOfferIDs() []string {
	offers := unlock.DefaultOffers()
	ids := make([]string, 0, len(offers))
	for _, o := range offers {
		ids = append(ids, o.ID)
	}
	return ids
}

func offerURLKey(id string) string {
	return "cpa.offer_url." + id
}
