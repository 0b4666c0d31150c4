package notifications

import (
	"context"
	"log/slog"

	"github.com/sauportal/notifier/pkg/logger"
)

// seedRequests is the fixed demo data inserted by Seed. Recipients are the
// well-known development user ids used by the mock directory.
var seedRequests = []CreateRequest{
	{
		Users:   []string{"dev-user-1"},
		Title:   "Welcome to the portal",
		Message: "Your account has been provisioned.\n\nVisit your profile to finish setup.",
		Type:    TypeInfo,
		Channel: ChannelPush,
	},
	{
		Users:            []string{"dev-user-1"},
		Title:            "Scheduled maintenance",
		Message:          "The portal will be unavailable on Saturday between 02:00 and 04:00 UTC.",
		ShortDescription: "Downtime this weekend",
		Priority:         true,
		Type:             TypeWarning,
		Channel:          ChannelPush,
	},
	{
		Users:   []string{"dev-user-2"},
		Title:   "You passed the exam",
		Message: "Congratulations, your results are in.",
		Type:    TypeCongrats,
		Channel: ChannelAll,
	},
}

// Seed inserts a small set of demo notifications through the regular
// dispatch pipeline. Intended for development environments only, behind a
// config flag.
func Seed(ctx context.Context, d *Dispatcher, log *slog.Logger) {
	if log == nil {
		log = slog.Default()
	}
	log.LogAttrs(ctx, slog.LevelInfo, "Seeding demo notifications",
		slog.Int("count", len(seedRequests)),
	)
	for _, req := range seedRequests {
		if _, err := d.CreateNotifications(ctx, req); err != nil {
			log.LogAttrs(ctx, slog.LevelWarn, "Failed to seed notification",
				slog.String("title", req.Title),
				logger.Error(err),
			)
		}
	}
}
