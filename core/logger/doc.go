// Package logger provides structured logging built on the standard slog package:
// a factory with environment presets and a set of attribute helpers for
// consistent field naming across the service.
//
//	log := logger.New(logger.WithDevelopment("meow-server"))
//	log.Info("challenge started",
//		logger.Component("session"),
//		logger.ID("template_id", tpl.ID),
//	)
package logger
