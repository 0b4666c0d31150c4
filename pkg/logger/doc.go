// Package logger builds configured log/slog loggers for the notifier service.
//
// It provides a factory with environment presets (development: text+debug,
// production: JSON+info), static attributes, and context extractors that
// inject request-scoped values into every record. Typed attribute helpers
// (Error, UserID, NotificationID, Recipient, ...) keep attribute keys
// consistent across packages.
//
//	log := logger.New(
//	    logger.WithProduction("notifier"),
//	)
//	log.InfoContext(ctx, "notification dispatched",
//	    logger.UserID(userID),
//	    logger.NotificationID(id),
//	)
package logger
