package config

const (
	defaultProbeTimeoutMS   = 2000
	defaultRequestTimeoutMS = 8000
	defaultPersistTimeoutMS = 5000
	defaultSort             = "applied_date"
	defaultDirection        = "desc"
	defaultServerBind       = "127.0.0.1:7490"
	defaultServerDBPath     = "~/.local/share/talentflow/board.db"
	defaultLogDir           = "~/.local/share/talentflow/logs"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Remote: Remote{
			ProbeTimeoutMS:   defaultProbeTimeoutMS,
			RequestTimeoutMS: defaultRequestTimeoutMS,
			PersistTimeoutMS: defaultPersistTimeoutMS,
		},
		Board: Board{
			DefaultSort:        defaultSort,
			DefaultDirection:   defaultDirection,
			ConfirmDestructive: true,
		},
		Server: Server{
			Bind:           defaultServerBind,
			DBPath:         defaultServerDBPath,
			AllowedOrigins: []string{"*"},
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
			Dir:    defaultLogDir,
		},
	}
}
