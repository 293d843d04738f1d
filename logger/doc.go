// Package logger provides structured logging for apiclient using zerolog.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.NewDefault("apiclient").WithComponent("pipeline")
//	log.Debug("token attached", logger.Fields("path", "/users"))
package logger
