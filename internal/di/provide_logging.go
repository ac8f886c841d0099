package di

import (
	"os"

	"github.com/rs/zerolog"
)

// ProvideLogger creates a new zerolog.Logger for the CLI. Console output is
// always pretty-printed; when ENVOPS_LOG_FILE is set, JSON log lines are
// teed into that file as well.
func ProvideLogger() zerolog.Logger {
	console := zerolog.ConsoleWriter{Out: os.Stdout}

	var writer zerolog.LevelWriter
	if path := os.Getenv("ENVOPS_LOG_FILE"); path != "" {
		file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err == nil {
			writer = zerolog.MultiLevelWriter(console, file)
		}
	}
	if writer == nil {
		writer = zerolog.MultiLevelWriter(console)
	}

	return zerolog.New(writer).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Logger()
}
