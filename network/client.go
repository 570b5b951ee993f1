// Package network provides a pre-configured HTTP client for occasional outbound requests.
package network

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gabreek/mpv-handler-queue/key"
	"github.com/spf13/viper"
)

// Client is the singleton HTTP client shared across the application.
// It honors the configured proxy so the version check works in the same
// network environment the player and resolver are pointed at.
var Client = &http.Client{
	Timeout:   time.Minute,
	Transport: newTransport(),
}

// newTransport initializes an http.Transport with conservative timeouts and optional proxy routing.
func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	t.Proxy = func(*http.Request) (*url.URL, error) {
		proxy := viper.GetString(key.PlayerProxy)
		if proxy == "" {
			return nil, nil
		}
		return url.Parse(proxy)
	}
	return t
}
