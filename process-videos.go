package mpmedia

import (
	"fmt"
	nurl "net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	rxIframeSrc   = regexp.MustCompile(`(?i)<iframe[^>]*src=["']([^"'>]*)["'][^>]*></iframe>`)
	rxNativeVideo = regexp.MustCompile(`(?i)data-src=["']([^"'>]*\.mp4[^"'>]*)["']`)
	rxVideoID     = regexp.MustCompile(`"vid"\s*:\s*"([^"]+)"`)
	rxVideoCover  = regexp.MustCompile(`data-cover=["']([^"'>]*)["']`)
)

// wechatVideoURL is the player page of a video uploaded to the platform.
const wechatVideoURL = "https://mp.weixin.qq.com/mp/readtemplate?t=pages/video_player_tmpl&action=mpvideo&auto=0&vid=%s"

// mediaHostMarker is part of every URL served by the platform media CDN.
const mediaHostMarker = "mmbiz"

// videoPlayerHosts are the third party players worth reporting.
var videoPlayerHosts = []string{
	"v.qq.com",
	"player.youku.com",
	"player.bilibili.com",
}

// platformRules is checked in order and the first match wins.
var platformRules = []struct {
	marker   string
	platform Platform
}{
	{"v.qq.com", PlatformTencent},
	{"youku.com", PlatformYouku},
	{"bilibili.com", PlatformBilibili},
	{"weixin.qq.com", PlatformWechat},
}

// VideoPlatform guesses the video platform from a player URL.
func VideoPlatform(url string) Platform {
	for _, rule := range platformRules {
		if strings.Contains(url, rule.marker) {
			return rule.platform
		}
	}
	return PlatformUnknown
}

type videoPass func(page string, baseURL *nurl.URL) []MediaItem

// extractVideos runs every video pass over the raw page. The passes are
// independent and may report the same video more than once; all of them
// are kept, in pass order.
func (e *Extractor) extractVideos(page string, baseURL *nurl.URL) []MediaItem {
	passes := []videoPass{iframeVideos, nativeVideos, wechatVideos}
	if !e.cfg.SkipCovers {
		passes = append(passes, videoCovers)
	}

	var videos []MediaItem
	for _, pass := range passes {
		videos = append(videos, pass(page, baseURL)...)
	}

	return videos
}

func iframeVideos(page string, baseURL *nurl.URL) []MediaItem {
	var videos []MediaItem

	for _, src := range submatches(rxIframeSrc, page) {
		if !isVideoPlayer(src) {
			continue
		}

		url := normalizeURL(src, baseURL)
		if !isHTTPURL(url) {
			continue
		}

		videos = append(videos, MediaItem{
			URL:      url,
			Type:     TypeIframeVideo,
			Platform: VideoPlatform(url),
		})
	}

	return videos
}

func nativeVideos(page string, baseURL *nurl.URL) []MediaItem {
	var videos []MediaItem

	for _, src := range submatches(rxNativeVideo, page) {
		url := normalizeURL(src, baseURL)
		if !isHTTPURL(url) {
			continue
		}

		videos = append(videos, MediaItem{
			URL:      url,
			Type:     TypeNativeVideo,
			Platform: PlatformWechat,
		})
	}

	return videos
}

func wechatVideos(page string, _ *nurl.URL) []MediaItem {
	var videos []MediaItem

	for _, match := range rxVideoID.FindAllStringSubmatch(page, -1) {
		vid := match[1]
		videos = append(videos, MediaItem{
			URL:      fmt.Sprintf(wechatVideoURL, nurl.QueryEscape(vid)),
			Type:     TypeWechatVideo,
			Platform: PlatformWechat,
			VID:      vid,
		})
	}

	return videos
}

func videoCovers(page string, baseURL *nurl.URL) []MediaItem {
	var covers []MediaItem

	for _, src := range submatches(rxVideoCover, page) {
		if !strings.Contains(src, mediaHostMarker) {
			continue
		}

		url := normalizeURL(src, baseURL)
		if !isHTTPURL(url) {
			continue
		}

		covers = append(covers, MediaItem{
			URL:      url,
			Type:     TypeVideoCover,
			Platform: PlatformWechat,
		})
	}

	return covers
}

func isVideoPlayer(url string) bool {
	for _, host := range videoPlayerHosts {
		if strings.Contains(url, host) {
			return true
		}
	}
	return false
}

// submatches returns the first group of every match of rx in page,
// with HTML entities (e.g. &amp;) decoded.
func submatches(rx *regexp.Regexp, page string) []string {
	var values []string
	for _, match := range rx.FindAllStringSubmatch(page, -1) {
		values = append(values, html.UnescapeString(match[1]))
	}
	return values
}
