package reconcile

import (
	"fmt"
	"time"
)

// Config holds the reconciliation window settings. The windows are
// asymmetric by source: notifications arrive promptly after the underlying
// transaction, SMS delivery can lag by tens of minutes.
type Config struct {
	// NotificationWindow is the half-width of the correlation window when
	// the incoming event is a payment-app notification.
	NotificationWindow time.Duration

	// SMSWindow is the half-width when the incoming event is a bank SMS.
	SMSWindow time.Duration
}

// DefaultConfig returns the standard window settings.
func DefaultConfig() *Config {
	return &Config{
		NotificationWindow: 10 * time.Minute,
		SMSWindow:          30 * time.Minute,
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.NotificationWindow <= 0 {
		return fmt.Errorf("notification window must be positive, got %v", c.NotificationWindow)
	}
	if c.SMSWindow <= 0 {
		return fmt.Errorf("sms window must be positive, got %v", c.SMSWindow)
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
