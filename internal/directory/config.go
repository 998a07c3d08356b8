package directory

import (
	"go.uber.org/zap"

	"github.com/orrn/printbridge/internal/config"
	"github.com/orrn/printbridge/internal/core"
)

// FromConfig chains the configured static printers, the optional registry
// and, when enabled, the operating system's printers, in that order.
func FromConfig(cfg config.PrintersConfig, registry *Registry, logger *zap.Logger) *Chain {
	dirs := []core.Directory{NewStatic(cfg.Static)}
	if registry != nil {
		dirs = append(dirs, registry)
	}
	if cfg.SystemDiscovery {
		dirs = append(dirs, NewSystem(SystemOptions{
			Binary: cfg.DiscoverCommand,
			Logger: logger,
		}))
	}
	return NewChain(logger, dirs...)
}
