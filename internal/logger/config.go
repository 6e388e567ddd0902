package logger

import (
	"log/slog"
	"strings"
)

// Config selects the handler and the attributes stamped on every record.
type Config struct {
	Level       string
	Format      string
	ServiceName string
	Version     string
	Environment string
}

// NewConfig builds a Config for the bot's service name.
func NewConfig(level, format, version, environment string) Config {
	return Config{
		Level:       level,
		Format:      format,
		ServiceName: DefaultServiceName,
		Version:     version,
		Environment: environment,
	}
}

// Leveler maps Level to a slog level; "warning" is accepted for warn.
func (c Config) Leveler() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.Level)) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn, "warning":
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c Config) handlerOptions() *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level:     c.Leveler(),
		AddSource: c.Environment == EnvironmentDev,
	}
}

func (c Config) baseAttrs() []slog.Attr {
	attrs := make([]slog.Attr, 0, 3)
	for _, kv := range [][2]string{
		{AttrKeyService, c.ServiceName},
		{AttrKeyVersion, c.Version},
		{AttrKeyEnvironment, c.Environment},
	} {
		if kv[1] != "" {
			attrs = append(attrs, slog.String(kv[0], kv[1]))
		}
	}
	return attrs
}
