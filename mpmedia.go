package mpmedia

import "io"

// UnknownTitle is used when the article page has no recognizable title.
const UnknownTitle = "unknown"

// ItemType tells what kind of media a MediaItem points to.
type ItemType string

const (
	TypeImage       ItemType = "image"
	TypeIframeVideo ItemType = "iframe_video"
	TypeNativeVideo ItemType = "native_video"
	TypeWechatVideo ItemType = "wechat_video"
	TypeVideoCover  ItemType = "video_cover"
)

// IsVideo reports whether the item type belongs to the video list.
func (t ItemType) IsVideo() bool {
	switch t {
	case TypeIframeVideo, TypeNativeVideo, TypeWechatVideo, TypeVideoCover:
		return true
	default:
		return false
	}
}

// Platform is the video host of a video item.
type Platform string

const (
	PlatformTencent  Platform = "tencent"
	PlatformYouku    Platform = "youku"
	PlatformBilibili Platform = "bilibili"
	PlatformWechat   Platform = "wechat"
	PlatformUnknown  Platform = "unknown"
)

// MediaItem is one media reference found in an article.
type MediaItem struct {
	URL      string
	Type     ItemType
	Platform Platform // only for videos
	VID      string   // only for wechat_video
	Alt      string   // only for images
}

// Request is data of extraction request. If Input is nil, the page
// is downloaded from URL. Otherwise Input is parsed and URL is only
// used as base for resolving relative links.
type Request struct {
	Input io.Reader
	URL   string
}

// Result is the outcome of extracting a single article.
type Result struct {
	Title  string
	URL    string
	Images []MediaItem
	Videos []MediaItem

	// Filled in after the media has been downloaded.
	DownloadedImages []Outcome
	DownloadedVideos []Outcome
}

// Outcome describes one attempted download.
type Outcome struct {
	OriginalURL string
	LocalPath   string
	Type        ItemType
	Success     bool
	Bytes       int
	MediaType   string
	Error       string
}
