// Package httpclient checks over plain HTTP that the site under test answers
// before any browser is launched.
package httpclient

import (
	"net"
	"net/http"
	"time"
)

// Config tunes the probe's client. Zero fields fall back to DefaultConfig.
type Config struct {
	// Timeout bounds one probe end to end, body included.
	Timeout time.Duration

	DialTimeout    time.Duration
	TLSHandshake   time.Duration
	ResponseHeader time.Duration
}

func DefaultConfig() Config {
	return Config{
		Timeout:        15 * time.Second,
		DialTimeout:    5 * time.Second,
		TLSHandshake:   5 * time.Second,
		ResponseHeader: 10 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = d.DialTimeout
	}
	if c.TLSHandshake <= 0 {
		c.TLSHandshake = d.TLSHandshake
	}
	if c.ResponseHeader <= 0 {
		c.ResponseHeader = d.ResponseHeader
	}
	return c
}

// newClient builds a client for one-shot checks: no pooling beyond a single
// idle connection, proxies honoured from the environment.
func newClient(cfg Config) *http.Client {
	dialer := &net.Dialer{Timeout: cfg.DialTimeout}

	return &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           dialer.DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConnsPerHost:   1,
			IdleConnTimeout:       10 * time.Second,
			TLSHandshakeTimeout:   cfg.TLSHandshake,
			ResponseHeaderTimeout: cfg.ResponseHeader,
		},
	}
}
