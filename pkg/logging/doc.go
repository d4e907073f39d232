// Package logging builds the slog loggers used across the cache packages.
//
// New returns a ready *slog.Logger with production-safe defaults (JSON at
// INFO), configurable through options:
//
//	log := logging.New(
//		logging.WithLevel(slog.LevelDebug),
//		logging.WithAttr(logging.Component("respcache")),
//	)
//	c, err := cache.New[string](cache.WithLogger(log))
//
// The package also defines attribute helpers (Error, Key, Component) so that
// log records carry consistent field names wherever the cache, the persistence
// wrapper, or the embedding application emit them.
//
// Presets cover the common deployments: WithDevelopment switches to readable
// text output at debug level, WithProduction keeps JSON at info and stamps the
// service name on every record.
package logging
