package config

import (
	"strings"
	"time"
)

// UpstreamConfig for the incentive backend API
type UpstreamConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// URL joins the base URL with a request path
func (c UpstreamConfig) URL(p string) string {
	return strings.TrimSuffix(c.BaseURL, "/") + p
}
