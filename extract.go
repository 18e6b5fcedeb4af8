package mpmedia

import (
	"context"
	"fmt"
	"io"
	nurl "net/url"
	"strings"

	"github.com/go-shiori/dom"
	"github.com/pkg/errors"
	"golang.org/x/net/html"
)

const (
	titleSelector   = "h1.rich_media_title"
	contentSelector = "div.rich_media_content"
)

// Extractor finds images and videos embedded in an article page.
type Extractor struct {
	logger

	cfg     Config
	fetcher *fetcher
}

// NewExtractor validates cfg and returns an Extractor that uses it.
func NewExtractor(cfg Config) (*Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Extractor{
		logger:  logger{enabled: cfg.EnableLog},
		cfg:     cfg,
		fetcher: newFetcher(cfg),
	}, nil
}

// Extract fetches the article (unless req.Input is set) and collects its
// media. A failed fetch returns ErrFetch, a page without the article
// content returns ErrContentNotFound. No partial result is returned.
func (e *Extractor) Extract(ctx context.Context, req Request) (*Result, error) {
	// Validate request
	if req.URL == "" {
		return nil, fmt.Errorf("request url is not specified")
	}

	baseURL, err := nurl.Parse(req.URL)
	if err != nil || baseURL.Scheme == "" || baseURL.Hostname() == "" {
		return nil, newError(ErrInvalidReference, req.URL, err)
	}

	// If needed download page from source URL
	var content []byte
	if req.Input == nil {
		e.logf("fetching article %s", req.URL)
		content, _, err = e.fetcher.get(ctx, req.URL, "")
		if err != nil {
			return nil, newError(ErrFetch, req.URL, err)
		}
	} else {
		content, err = io.ReadAll(req.Input)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read input")
		}
	}

	return e.processPage(decodeUTF8(content), req.URL, baseURL)
}

func (e *Extractor) processPage(page string, ref string, baseURL *nurl.URL) (*Result, error) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse HTML")
	}

	content := dom.QuerySelector(doc, contentSelector)
	if content == nil {
		e.warnf("article content not found in %s", ref)
		return nil, newError(ErrContentNotFound, ref, nil)
	}

	result := &Result{
		Title: findTitle(doc),
		URL:   ref,
	}

	result.Images = e.extractImages(content, baseURL)
	e.logf("found %d images", len(result.Images))

	// Videos are searched in the raw page, not only in the content,
	// because the player data lives in scripts outside of it.
	result.Videos = e.extractVideos(page, baseURL)
	e.logf("found %d videos", len(result.Videos))

	return result, nil
}

func findTitle(doc *html.Node) string {
	node := dom.QuerySelector(doc, titleSelector)
	if node == nil {
		return UnknownTitle
	}

	title := strings.Join(strings.Fields(dom.TextContent(node)), " ")
	if title == "" {
		return UnknownTitle
	}

	return title
}
