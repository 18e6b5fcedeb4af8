package mpmedia

import (
	"context"
	"os"
	fp "path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
)

// Downloader saves media items to local disk, one at a time.
type Downloader struct {
	logger

	cfg     Config
	fetcher *fetcher

	sleep func(time.Duration)
	now   func() time.Time
}

// NewDownloader validates cfg and returns a Downloader that uses it.
func NewDownloader(cfg Config) (*Downloader, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Downloader{
		logger:  logger{enabled: cfg.EnableLog},
		cfg:     cfg,
		fetcher: newFetcher(cfg),
		sleep:   time.Sleep,
		now:     time.Now,
	}, nil
}

// DownloadAll downloads items into dstDir in the order they are given,
// and returns one Outcome for every item it tried. Iframe videos are
// skipped without an outcome since they are player pages, not files.
// Wechat videos are fetched as is, so their file holds the player page.
// A failed item never stops the batch; the returned error is only about
// dstDir that can't be created.
func (d *Downloader) DownloadAll(ctx context.Context, items []MediaItem, dstDir string) ([]Outcome, error) {
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create directory %s", dstDir)
	}

	names := newFileNamer(d.cfg.Naming)
	outcomes := []Outcome{}
	nSuccess := 0

	for i, item := range items {
		if item.Type == TypeIframeVideo {
			d.logf("skipped iframe video %s", item.URL)
			continue
		}

		// Wait a bit between requests, whether the last one failed or not
		if len(outcomes) > 0 && d.cfg.Delay > 0 {
			d.sleep(d.cfg.Delay)
		}

		outcome := d.downloadItem(ctx, item, i+1, dstDir, names)
		if outcome.Success {
			nSuccess++
		}
		outcomes = append(outcomes, outcome)
	}

	d.logf("downloaded %d/%d files to %s", nSuccess, len(outcomes), dstDir)
	return outcomes, nil
}

func (d *Downloader) downloadItem(ctx context.Context, item MediaItem, index int, dstDir string, names *fileNamer) Outcome {
	outcome := Outcome{
		OriginalURL: item.URL,
		Type:        item.Type,
	}

	d.logf("downloading %s %s", item.Type, item.URL)
	body, contentType, err := d.fetcher.get(ctx, item.URL, d.cfg.Referer)
	if err != nil {
		return d.failed(outcome, err)
	}

	name := names.name(item, index, contentType)
	path := fp.Join(dstDir, name)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return d.failed(outcome, err)
	}

	outcome.Success = true
	outcome.LocalPath = path
	outcome.Bytes = len(body)
	outcome.MediaType = mimetype.Detect(body).String()

	d.logf("✓ %s (%s)", name, humanize.Bytes(uint64(len(body))))
	return outcome
}

func (d *Downloader) failed(outcome Outcome, cause error) Outcome {
	err := newError(ErrDownloadItem, outcome.OriginalURL, cause)
	d.warnf("✗ %v", err)

	outcome.Error = err.Error()
	return outcome
}
