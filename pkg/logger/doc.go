// Package logger provides the structured logging interface used across igmobile.
//
// It wraps zerolog behind a small Logger interface so components can be handed
// a NopLogger or a TestLogger in tests:
//
//	err := logger.Initialize(&config.LoggingConfig{Level: "debug"})
//
//	log := logger.GetLogger().WithField("component", "upload")
//	log.InfoWithFields("Chunk accepted", map[string]interface{}{
//	    "upload_id": uploadID,
//	    "index":     0,
//	})
//
// Components accept a nil Logger and fall back to the global one via Or.
package logger
