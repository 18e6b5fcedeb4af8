package mpmedia

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	acceptHeader   = "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8"
	acceptLanguage = "zh-CN,zh;q=0.9,en;q=0.8"
	maxElapsedTime = 30 * time.Second
)

// fetcher issues GET requests with browser-like headers. It is shared
// by Extractor and Downloader and holds no state besides its config.
type fetcher struct {
	cfg        Config
	httpClient *http.Client
}

func newFetcher(cfg Config) *fetcher {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.SkipTLSVerification {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true, //nolint:gosec
		}
	}

	return &fetcher{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout:   cfg.RequestTimeout,
			Transport: transport,
		},
	}
}

// get downloads url and returns the whole body with its content type.
// Responses outside of 2xx are errors. Server errors and 429 are retried
// up to MaxRetries times, everything else fails on the first attempt.
func (f *fetcher) get(ctx context.Context, url string, referer string) ([]byte, string, error) {
	var body []byte
	var contentType string

	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		req.Header.Set("User-Agent", f.cfg.UserAgent)
		req.Header.Set("Accept", acceptHeader)
		req.Header.Set("Accept-Language", acceptLanguage)
		if referer != "" {
			req.Header.Set("Referer", referer)
		}

		resp, err := f.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			err = fmt.Errorf("failed to fetch with status code: %d", resp.StatusCode)
			if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
				return err
			}
			return backoff.Permanent(err)
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		contentType = resp.Header.Get("Content-Type")
		return nil
	}

	exp := backoff.NewExponentialBackOff()
	exp.MaxElapsedTime = maxElapsedTime
	bo := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(f.cfg.MaxRetries)), ctx)
	if err := backoff.Retry(op, bo); err != nil {
		return nil, "", err
	}

	return body, contentType, nil
}
