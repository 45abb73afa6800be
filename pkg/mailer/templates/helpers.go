package templates

import (
	"fmt"
	"time"

	"github.com/oksasatya/storefront/config"
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

func WithResetURL(url string) Option { return func(d *EmailData) { d.ResetURL = url } }

func WithExpiresAt(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.ExpiresAt = utc
		d.ExpiresAtText = utc.Format("02 January 2006, 15:04 MST")
	}
}

func WithOrder(id int64, url, total string, items []ItemLine) Option {
	return func(d *EmailData) {
		d.OrderID = id
		d.OrderURL = url
		d.OrderTotal = total
		d.Items = items
	}
}

// NewBaseEmailData fills the common fields from config, then applies opts.
func NewBaseEmailData(cfg *config.Config, typ string, name, email string, opts ...Option) EmailData {
	d := EmailData{
		Name:  name,
		Email: email,
		Type:  typ,

		CompanyName:    cfg.CompanyName,
		CompanyAddress: cfg.CompanyAddress,
		AppName:        cfg.AppName,

		LogoURL:    cfg.LogoURL,
		SupportURL: cfg.SupportURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewPasswordResetData(cfg *config.Config, name, email, resetURL string, expiresAt time.Time, opts ...Option) map[string]any {
	opts = append([]Option{WithResetURL(resetURL), WithExpiresAt(expiresAt)}, opts...)
	return ToMap(NewBaseEmailData(cfg, PasswordReset, name, email, opts...))
}

func NewOrderConfirmationData(cfg *config.Config, name, email string, orderID int64, total string, items []ItemLine, opts ...Option) map[string]any {
	url := cfg.OrderURL
	if url != "" {
		url = fmt.Sprintf("%s/%d", url, orderID)
	}
	opts = append([]Option{WithOrder(orderID, url, total, items)}, opts...)
	return ToMap(NewBaseEmailData(cfg, OrderConfirmation, name, email, opts...))
}
