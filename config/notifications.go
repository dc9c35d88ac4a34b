package config

import (
	"strings"
	"time"
)

// NotificationsConfig controls outbound reservation event fan-out.
type NotificationsConfig struct {
	Enabled bool                      `env:"NOTIFICATIONS_ENABLED" envDefault:"false"`
	Webhook WebhookNotificationConfig `envPrefix:"NOTIFICATIONS_WEBHOOK_"`
}

// Sanitize normalises notification configuration values.
func (c *NotificationsConfig) Sanitize() {
	c.Webhook.sanitize()
	if !c.Enabled {
		c.Webhook.Enabled = false
		return
	}
	if c.Webhook.Enabled && c.Webhook.URL == "" {
		c.Webhook.Enabled = false
	}
}

// WebhookNotificationConfig controls the reservation event webhook sink.
type WebhookNotificationConfig struct {
	Enabled bool   `env:"ENABLED" envDefault:"false"`
	URL     string `env:"URL"`

	// BodySelector is an optional JMESPath expression applied to the event
	// document before posting. Empty posts the full document.
	BodySelector string `env:"BODY_SELECTOR"`

	Timeout    time.Duration `env:"TIMEOUT"     envDefault:"5s"`
	RetryLimit int           `env:"RETRY_LIMIT" envDefault:"3"`
}

func (c *WebhookNotificationConfig) sanitize() {
	c.URL = strings.TrimSpace(c.URL)
	c.BodySelector = strings.TrimSpace(c.BodySelector)
	if c.Timeout <= 0 {
		c.Timeout = 5 * time.Second
	}
	if c.RetryLimit < 0 {
		c.RetryLimit = 0
	}
}
