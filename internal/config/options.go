package config

// ConfigOption is one configuration key with its default. Env lists extra
// unprefixed environment variables accepted for the key.
type ConfigOption struct {
	Key     string
	Default any
	Comment string
	Env     []string
}

// EnvPrefix is prepended to every key when read from the environment
// (http.port -> CV_ATS_HTTP_PORT).
const EnvPrefix = "cv_ats"

// GetConfigOptions returns every supported option. This is the single source
// of truth for defaults.
func GetConfigOptions() []ConfigOption {
	opts := []ConfigOption{
		{Key: "http.port", Default: 8080, Comment: "HTTP listen port", Env: []string{"PORT"}},
		{Key: "http.allowed_origins", Default: []string{"*"}, Comment: "CORS allowed origins"},
		{Key: "http.max_body_bytes", Default: 10 << 20, Comment: "Maximum request body size"},

		{Key: "store.driver", Default: "memory", Comment: "Key-value store backend: memory, sqlite or postgres"},
		{Key: "store.dsn", Default: "", Comment: "sqlite path or postgres URL", Env: []string{"DATABASE_URL"}},
		{Key: "store.purge_interval", Default: "10m", Comment: "How often expired keys are deleted"},

		{Key: "unlock.codes", Default: []string{}, Comment: "Comma-separated plain unlock codes", Env: []string{"UNLOCK_CODES"}},
		{Key: "unlock.code_hashes", Default: []string{}, Comment: "Comma-separated bcrypt hashes of unlock codes", Env: []string{"UNLOCK_CODE_HASHES"}},
		{Key: "unlock.require", Default: false, Comment: "Require an unlock token on export routes"},
		{Key: "unlock.ttl", Default: "48h", Comment: "How long a completed offer unlocks a tracking id"},
		{Key: "unlock.bcrypt_cost", Default: 12, Comment: "bcrypt cost used by the hash-code command", Env: []string{"BCRYPT_COST"}},
		{Key: "unlock.token.secret", Default: "", Comment: "HS256 secret for unlock tokens; empty disables tokens", Env: []string{"UNLOCK_TOKEN_SECRET"}},
		{Key: "unlock.token.expiration_hours", Default: 48, Comment: "Unlock token lifetime"},

		{Key: "cpa.postback_secret", Default: "", Comment: "Shared secret the CPA network sends as ?secret= on postbacks"},

		{Key: "llm.api_key", Default: "", Comment: "Gemini API key", Env: []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}},
		{Key: "llm.model", Default: "gemini-2.5-flash", Comment: "Model used to improve and create résumés"},
		{Key: "llm.temperature", Default: 0.4, Comment: "Sampling temperature"},

		{Key: "quota.limit", Default: 20, Comment: "LLM requests allowed per client per window"},
		{Key: "quota.window", Default: "1h", Comment: "LLM quota window"},

		{Key: "photo.transcode", Default: true, Comment: "Convert WEBP/GIF/BMP/TIFF photos to PNG before export"},
	}

	for _, id := range defaultOfferIDs() {
		opts = append(opts, ConfigOption{Key: offerURLKey(id), Default: "", Comment: "Tracking link for offer " + id})
	}
	return opts
}
