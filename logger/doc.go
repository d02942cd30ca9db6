// Package logger provides structured logging backed by zerolog.
//
// It supports JSON and console output, level configuration and
// component-scoped loggers carrying structured fields.
//
// # Configuration
//
//	logger:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("apiclient")
//	log.Info("request sent", logger.Fields("method", "GET", "status", 200))
package logger
