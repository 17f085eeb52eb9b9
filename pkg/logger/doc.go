// Package logger wraps zerolog behind a small Logger interface.
//
// The global logger is configured once from config.LoggingConfig:
//
//	if err := logger.Initialize(&cfg.Logging); err != nil {
//	    return err
//	}
//	logger.WithField("page", 3).Info("Listing page parsed")
//
// Console output is colored only when stdout is a terminal. When
// LoggingConfig.File is set, JSON lines are additionally appended to that
// file.
//
// Components take a Logger in their constructors. Tests pass NewTestLogger,
// which records messages for assertions, or NewNopLogger.
package logger
