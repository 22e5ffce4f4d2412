package templates

import (
	"time"

	"github.com/Gitsandu/taskmanagementBackend/config"
)

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

func WithAppURL(url string) Option { return func(d *EmailData) { d.AppURL = url } }

// NewWelcomeData builds the payload for the signup welcome email.
func NewWelcomeData(cfg *config.Config, name, email string, opts ...Option) map[string]any {
	d := EmailData{
		Type:           Welcome,
		Name:           name,
		Email:          email,
		RecipientEmail: email,
	}
	if cfg != nil {
		d.AppName = cfg.AppName
		d.AppURL = cfg.AppURL
	}
	for _, o := range opts {
		o(&d)
	}
	return ToMap(d)
}
