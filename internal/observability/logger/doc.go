// Package logger provides a singleton Zap logger with context-based scoping.
//
// One global instance is initialized with Init() from main. Request
// middlewares inject a scoped logger (request_id, method, path) into the
// context; services and controllers recover it with From(ctx) and add their
// own fields.
//
// Initialization (once, in main):
//
//	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
//	defer logger.Sync()
//
// In handlers/services:
//
//	log := logger.From(ctx)
//	log.Info("thought created", logger.AccountID(id))
package logger
