package config

const (
	defaultStagingDir         = "~/.local/share/tubecast/staging"
	defaultLogDir             = "~/.local/share/tubecast/logs"
	defaultAPIBind            = "127.0.0.1:7823"
	defaultQueueCapacity      = 100
	defaultErrorRetryInterval = 1
	defaultOpenAIBaseURL      = "https://api.openai.com/v1"
	defaultOpenAIModel        = "gpt-4o-mini"
	defaultOpenAITimeout      = 60
	defaultNewsBaseURL        = "https://newsapi.org/v2"
	defaultNewsTimeout        = 15
	defaultTTSVoice           = "alloy"
	defaultTTSTimeout         = 120
	defaultNotifyTimeout      = 10
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: defaultStagingDir,
			LogDir:     defaultLogDir,
			APIBind:    defaultAPIBind,
		},
		Queue: Queue{
			Capacity:           defaultQueueCapacity,
			ErrorRetryInterval: defaultErrorRetryInterval,
		},
		OpenAI: OpenAI{
			BaseURL:        defaultOpenAIBaseURL,
			Model:          defaultOpenAIModel,
			TimeoutSeconds: defaultOpenAITimeout,
		},
		News: News{
			BaseURL:        defaultNewsBaseURL,
			TimeoutSeconds: defaultNewsTimeout,
		},
		TTS: TTS{
			Voice:          defaultTTSVoice,
			TimeoutSeconds: defaultTTSTimeout,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			Jobs:           true,
			Approvals:      true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
