package config

const (
	defaultDataDir         = "~/.local/share/loom"
	defaultAPIBind         = "127.0.0.1:8080"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	defaultReadTimeout     = 15
	defaultWriteTimeout    = 30
	defaultIdleTimeout     = 60
	defaultShutdownTimeout = 5
)

func defaultAllowedExtensions() []string {
	return []string{".mp3", ".wav", ".m4a", ".flac"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			APIBind: defaultAPIBind,
		},
		Server: Server{
			ReadTimeout:     defaultReadTimeout,
			WriteTimeout:    defaultWriteTimeout,
			IdleTimeout:     defaultIdleTimeout,
			ShutdownTimeout: defaultShutdownTimeout,
		},
		Upload: Upload{
			AllowedExtensions: defaultAllowedExtensions(),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
