package config

const (
	// ProviderOpenRouter routes generation through the OpenRouter chat API.
	ProviderOpenRouter = "openrouter"
	// ProviderGemini routes generation through the Google Gemini API.
	ProviderGemini = "gemini"

	// HistoryBackendSQLite keeps the history slot in a sqlite table.
	HistoryBackendSQLite = "sqlite"
	// HistoryBackendFile keeps the history slot in a locked JSON file.
	HistoryBackendFile = "file"
)

const (
	defaultDataDir           = "~/.local/share/ghostwood"
	defaultLogDir            = "~/.local/share/ghostwood/logs"
	defaultAPIBind           = "127.0.0.1:7491"
	defaultLLMProvider       = ProviderOpenRouter
	defaultLLMBaseURL        = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel          = "google/gemini-3-flash-preview"
	defaultLLMReferer        = "https://github.com/ghostwood/ghostwood"
	defaultLLMTitle          = "Ghostwood Pickup Studio"
	defaultLLMTimeoutSeconds = 60
	defaultLLMRetryAttempts  = 3
	defaultGeminiModel       = "gemini-3-flash-preview"
	defaultBrandName         = "Ghostwood"
	defaultBrandContext      = "Boutique hand-wound builder focusing on clarity and physics."
	defaultHeritageQuery     = "Ghostwood Musical Instrument Pickups"
	defaultDemoChannel       = "@catfishbisque"
	defaultHistoryBackend    = HistoryBackendSQLite
	defaultHistoryMaxEntries = 10
	defaultCheckoutPrice     = 18500
	defaultCheckoutCurrency  = "USD"
	defaultCheckoutLeadTime  = "3 weeks"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

var defaultDemoURLPatterns = []string{"youtube.com/watch", "youtube.com/shorts"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		LLM: LLM{
			Provider:       defaultLLMProvider,
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Referer:        defaultLLMReferer,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
			RetryAttempts:  defaultLLMRetryAttempts,
		},
		Gemini: Gemini{
			Model: defaultGeminiModel,
		},
		Brand: Brand{
			Name:            defaultBrandName,
			FallbackContext: defaultBrandContext,
			HeritageQuery:   defaultHeritageQuery,
			DemoChannel:     defaultDemoChannel,
			DemoURLPatterns: append([]string(nil), defaultDemoURLPatterns...),
		},
		History: History{
			Backend:    defaultHistoryBackend,
			MaxEntries: defaultHistoryMaxEntries,
		},
		Checkout: Checkout{
			PriceCents: defaultCheckoutPrice,
			Currency:   defaultCheckoutCurrency,
			LeadTime:   defaultCheckoutLeadTime,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
