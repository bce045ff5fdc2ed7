package logging

import (
	"fmt"
	"sync"

	"scanmatch-utils/internal/config"
	"scanmatch-utils/internal/logging/adapters"
	"scanmatch-utils/internal/logging/types"
)

var (
	globalLogger Logger
	globalMu     sync.RWMutex
)

// InitGlobalLogger builds the global logger from configuration. When no
// adapters are configured a json stdout adapter is used.
func InitGlobalLogger(cfg *config.Config) (Logger, error) {
	logger := NewMultiLogger()
	logger.SetLevel(types.ParseLevel(cfg.Logging.Level))

	added := 0
	for _, ac := range cfg.Logging.Adapters {
		if !ac.Enabled {
			continue
		}

		adapter, err := createAdapter(ac.Name, ac.Type, ac.Options, cfg.Logging.Format)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s adapter: %w", ac.Type, err)
		}

		if err := logger.AddAdapter(adapter); err != nil {
			return nil, err
		}
		added++
	}

	if added == 0 {
		if err := logger.AddAdapter(adapters.NewStdoutAdapter("stdout", cfg.Logging.Format)); err != nil {
			return nil, err
		}
	}

	globalMu.Lock()
	globalLogger = logger
	globalMu.Unlock()

	return logger, nil
}

// GetGlobalLogger returns the process-wide logger, creating a default
// stdout logger if none was initialized
func GetGlobalLogger() Logger {
	globalMu.RLock()
	logger := globalLogger
	globalMu.RUnlock()

	if logger != nil {
		return logger
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger == nil {
		fallback := NewMultiLogger()
		_ = fallback.AddAdapter(adapters.NewStdoutAdapter("stdout", "json"))
		globalLogger = fallback
	}
	return globalLogger
}

func createAdapter(name, adapterType string, options map[string]interface{}, defaultFormat string) (types.LogAdapter, error) {
	format := stringOption(options, "format", defaultFormat)

	switch adapterType {
	case "stdout":
		return adapters.NewStdoutAdapter(name, format), nil
	case "file":
		path := stringOption(options, "file_path", "")
		return adapters.NewFileAdapter(name, path, format)
	default:
		return nil, fmt.Errorf("unsupported adapter type: %s", adapterType)
	}
}

func stringOption(options map[string]interface{}, key, fallback string) string {
	if options == nil {
		return fallback
	}
	if v, ok := options[key].(string); ok && v != "" {
		return v
	}
	return fallback
}
