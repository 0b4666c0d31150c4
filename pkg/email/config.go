package email

import "time"

// Config holds email subsystem configuration.
// Postmark tokens are optional to support development environments where
// outbound mail is written to disk instead (see DevSender). FromAddress is
// required as it establishes the sender identity of all outbound mail.
type Config struct {
	PostmarkServerToken  string        `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string        `env:"POSTMARK_ACCOUNT_TOKEN"`
	FromAddress          string        `env:"MAIL_FROM_ADDRESS,required"`
	FromName             string        `env:"MAIL_FROM_NAME"`
	RetryAttempts        int           `env:"MAIL_RETRY_ATTEMPTS" envDefault:"3"`
	RetryDelay           time.Duration `env:"MAIL_RETRY_DELAY" envDefault:"1500ms"`
}
