package config

import (
	"github.com/rshade/dataviewer/internal/logging"
)

// ToLoggingConfig converts the config section to a logging.Config.
//
// Interactive mode must keep the terminal clean, so logs go to File or, when
// File is empty, to the default log file. Non-interactive mode writes to File
// when set and to stderr otherwise.
func (lc *LoggingConfig) ToLoggingConfig(interactive bool) logging.Config {
	out := logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		Output: logging.OutputStderr,
		File:   lc.File,
	}

	if out.File == "" && interactive {
		if path, err := DefaultLogFile(); err == nil {
			out.File = path
		}
	}

	switch {
	case out.File != "":
		out.Output = logging.OutputFile
	case interactive:
		out.Output = logging.OutputDiscard
	}

	return out
}

// GetLoggingConfig returns a copy of the global Logging section.
func GetLoggingConfig() LoggingConfig {
	cfg := GetGlobalConfig()
	return cfg.Logging
}
