package config

const (
	defaultMaxChunkSize   = 25
	defaultContextSize    = 3
	defaultNaturalBreakMS = 3000
	defaultMaxAttempts    = 3
	defaultRetryDelayMS   = 1000

	defaultLLMBaseURL        = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel          = "google/gemini-3-flash-preview"
	defaultLLMTimeoutSeconds = 120

	defaultOpenSubtitlesUserAgent = "Shuttle/dev"

	defaultWorkDir = "~/.local/share/shuttle"
	defaultLogDir  = "~/.local/share/shuttle/logs"

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Translation: Translation{
			MaxChunkSize:   defaultMaxChunkSize,
			ContextSize:    defaultContextSize,
			NaturalBreakMS: defaultNaturalBreakMS,
			MaxAttempts:    defaultMaxAttempts,
			RetryDelayMS:   defaultRetryDelayMS,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		OpenSubtitles: OpenSubtitles{
			UserAgent: defaultOpenSubtitlesUserAgent,
			Languages: []string{"en"},
		},
		Paths: Paths{
			WorkDir: defaultWorkDir,
			LogDir:  defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
