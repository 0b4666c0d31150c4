// Package mongo provides MongoDB connection management for the notifier
// service's durable notification store.
//
// Configuration is environment-driven (see Config), connection establishment
// retries transient failures, and Healthcheck exposes a probe function for
// orchestration.
//
//	cfg := mongo.Config{ConnectionURL: "mongodb://localhost:27017"}
//
//	db, err := mongo.NewWithDatabase(ctx, cfg, "notifier")
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Connection failures are wrapped in package sentinel errors so callers can
// use errors.Is.
package mongo
