package config

const (
	defaultCatalogPath        = "~/.local/share/reclaim/catalog.db"
	defaultDenylistPath       = "~/.config/reclaim/denylisted_phashes.txt"
	defaultLogDir             = "~/.local/share/reclaim/logs"
	defaultMSEImageThreshold  = 10.0
	defaultMSEVideoThreshold  = 10.0
	defaultSinkRequestTimeout = 10
	defaultDeleteMaxAttempts  = 8
	defaultDeleteBackoff      = 1
	defaultLogLevel           = "info"
	defaultLogFormat          = "console"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CatalogPath:  defaultCatalogPath,
			DenylistPath: defaultDenylistPath,
			LogDir:       defaultLogDir,
		},
		Similarity: Similarity{
			MSEImageThreshold: defaultMSEImageThreshold,
			MSEVideoThreshold: defaultMSEVideoThreshold,
		},
		Sink: Sink{
			RequestTimeout: defaultSinkRequestTimeout,
		},
		Deletion: Deletion{
			MaxAttempts:    defaultDeleteMaxAttempts,
			BackoffSeconds: defaultDeleteBackoff,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
