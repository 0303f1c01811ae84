package config

const (
	defaultDataDir         = "~/.local/share/fieldnote/data"
	defaultUploadsDir      = "~/.local/share/fieldnote/uploads"
	defaultLogDir          = "~/.local/share/fieldnote/logs"
	defaultAPIBind         = "127.0.0.1:7643"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	defaultChunkIntervalMS = 1000
	defaultTickIntervalMS  = 100
	defaultMaxNoteLength   = 4000
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:    defaultDataDir,
			UploadsDir: defaultUploadsDir,
			LogDir:     defaultLogDir,
			APIBind:    defaultAPIBind,
		},
		Capture: Capture{
			ChunkIntervalMS: defaultChunkIntervalMS,
			TickIntervalMS:  defaultTickIntervalMS,
			MaxNoteLength:   defaultMaxNoteLength,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
