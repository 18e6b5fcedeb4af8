package mpmedia

import (
	nurl "net/url"
	"strings"

	"github.com/go-shiori/dom"
	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"golang.org/x/net/html"
)

// extractImages collects every <img> inside content in document order.
// The platform keeps the real source in data-src and puts a placeholder
// in src, so data-src wins whenever it's not empty.
func (e *Extractor) extractImages(content *html.Node, baseURL *nurl.URL) []MediaItem {
	var images []MediaItem

	for _, img := range dom.GetElementsByTagName(content, "img") {
		src := strings.TrimSpace(dom.GetAttribute(img, "data-src"))
		if src == "" {
			src = strings.TrimSpace(dom.GetAttribute(img, "src"))
		}

		if src == "" {
			continue
		}

		url := normalizeURL(src, baseURL)
		if !isHTTPURL(url) {
			e.debugf("skipped image %q", src)
			continue
		}

		images = append(images, MediaItem{
			URL:  url,
			Type: TypeImage,
			Alt:  dom.GetAttribute(img, "alt"),
		})
	}

	if e.cfg.StyleImages {
		images = append(images, e.extractStyleImages(content, baseURL)...)
	}

	return images
}

// extractStyleImages looks for url() in inline style of every element
// inside content, e.g. sections that use a background image.
func (e *Extractor) extractStyleImages(content *html.Node, baseURL *nurl.URL) []MediaItem {
	var images []MediaItem

	for _, node := range dom.GetElementsByTagName(content, "*") {
		style := dom.GetAttribute(node, "style")
		if strings.TrimSpace(style) == "" {
			continue
		}

		for _, styleURL := range scanStyleURLs(style) {
			url := normalizeURL(styleURL, baseURL)
			if !isHTTPURL(url) {
				e.debugf("skipped style image %q", styleURL)
				continue
			}

			images = append(images, MediaItem{URL: url, Type: TypeImage})
		}
	}

	return images
}

// scanStyleURLs returns the URL of every url() token in CSS rules.
func scanStyleURLs(rules string) []string {
	var urls []string
	lexer := css.NewLexer(parse.NewInput(strings.NewReader(rules)))

	for {
		token, bt := lexer.Next()

		// Check for error or EOF
		if token == css.ErrorToken {
			break
		}

		if token == css.URLToken {
			if url := sanitizeStyleURL(string(bt)); url != "" {
				urls = append(urls, url)
			}
		}
	}

	return urls
}
