package engine

import (
	"log/slog"

	stealth "github.com/anatolykoptev/go-stealth"
	"github.com/anatolykoptev/go-stealth/proxypool"
)

// BrowserClient is the Chrome-fingerprinted HTTP client.
type BrowserClient = stealth.BrowserClient

// ChromeHeaders returns the header set a desktop Chrome sends for a navigation.
func ChromeHeaders() map[string]string { return stealth.ChromeHeaders() }

// NewBrowserClient builds the Chrome-fingerprinted client used for watch page scraping.
// An empty webshareKey runs without a proxy pool.
func NewBrowserClient(timeoutSec int, webshareKey string) (*BrowserClient, error) {
	opts := []stealth.ClientOption{stealth.WithTimeout(timeoutSec)}

	if webshareKey != "" {
		pool, err := proxypool.NewWebshare(webshareKey)
		if err != nil {
			slog.Warn("proxy pool init failed, running without proxy", slog.Any("error", err))
		} else {
			opts = append(opts, stealth.WithProxyPool(pool))
			slog.Info("proxy pool initialized", slog.Int("proxies", pool.Len()))
		}
	}

	return stealth.NewClient(opts...)
}
