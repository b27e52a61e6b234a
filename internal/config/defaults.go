package config

const (
	defaultDataDir   = "~/.local/share/gleaner"
	defaultLogDir    = "~/.local/share/gleaner/logs"
	defaultExportDir = "~/gleaner-exports"

	defaultYouTubeBaseURL = "https://www.googleapis.com/youtube/v3"
	defaultPageSize       = 50

	defaultLLMBaseURL        = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel          = "google/gemini-3-flash-preview"
	defaultLLMReferer        = "https://github.com/gleaner-dev/gleaner"
	defaultLLMTitle          = "Gleaner Extraction"
	defaultLLMTimeoutSeconds = 60

	defaultPacingSeconds      = 1
	defaultDescriptionLimit   = 2000
	defaultBaseConfidence     = 0.8
	defaultFallbackConfidence = 0.3

	defaultNotifyRequestTimeout = 10

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			LogDir:    defaultLogDir,
			ExportDir: defaultExportDir,
		},
		YouTube: YouTube{
			BaseURL:  defaultYouTubeBaseURL,
			PageSize: defaultPageSize,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Referer:        defaultLLMReferer,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		Pipeline: Pipeline{
			PacingSeconds:      defaultPacingSeconds,
			DescriptionLimit:   defaultDescriptionLimit,
			BaseConfidence:     defaultBaseConfidence,
			FallbackConfidence: defaultFallbackConfidence,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
