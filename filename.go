package mpmedia

import (
	"fmt"
	nurl "net/url"
	pth "path"
	"regexp"
	"strings"

	"github.com/kennygrant/sanitize"
)

const defaultExtension = ".jpg"

// rxExtension is what a usable extension looks like. Anything else
// (separators, dots, long garbage) is ignored and the next rule decides.
var rxExtension = regexp.MustCompile(`^\.[A-Za-z0-9]{1,5}$`)

// ExtensionRule infers a file extension from one source. It returns an
// empty string when the source has nothing to say.
type ExtensionRule struct {
	Source string
	Find   func(u *nurl.URL, contentType string) string
}

// ExtensionRules is the order in which the extension of a downloaded
// file is decided. The first rule returning an extension wins.
var ExtensionRules = []ExtensionRule{
	{Source: "url path", Find: extensionFromPath},
	{Source: "url query", Find: extensionFromQuery},
	{Source: "content type", Find: extensionFromContentType},
	{Source: "default", Find: func(*nurl.URL, string) string { return defaultExtension }},
}

var contentTypeExtensions = []struct {
	contentType string
	extension   string
}{
	{"image/jpeg", ".jpg"},
	{"image/jpg", ".jpg"},
	{"image/png", ".png"},
	{"image/gif", ".gif"},
	{"video/mp4", ".mp4"},
}

// FileExtension returns the extension (with leading dot) for a file
// downloaded from rawURL with the specified content type.
func FileExtension(rawURL string, contentType string) string {
	u, err := nurl.Parse(rawURL)
	if err != nil {
		u = nil
	}

	for _, rule := range ExtensionRules {
		if ext := rule.Find(u, contentType); ext != "" {
			return ext
		}
	}

	return defaultExtension
}

func extensionFromPath(u *nurl.URL, _ string) string {
	if u == nil {
		return ""
	}

	if ext := pth.Ext(u.Path); rxExtension.MatchString(ext) {
		return ext
	}
	return ""
}

// extensionFromQuery reads wx_fmt, which the media CDN uses to
// tell the image format of extension-less paths.
func extensionFromQuery(u *nurl.URL, _ string) string {
	if u == nil {
		return ""
	}

	if ext := "." + u.Query().Get("wx_fmt"); rxExtension.MatchString(ext) {
		return ext
	}
	return ""
}

func extensionFromContentType(_ *nurl.URL, contentType string) string {
	contentType = strings.ToLower(contentType)
	for _, entry := range contentTypeExtensions {
		if strings.Contains(contentType, entry.contentType) {
			return entry.extension
		}
	}
	return ""
}

// filePrefix is the name prefix used for indexed file names.
func filePrefix(t ItemType) string {
	switch t {
	case TypeImage:
		return "image"
	case TypeVideoCover:
		return "video_cover"
	default:
		return "video"
	}
}

// indexedName creates name like image_001.jpg.
func indexedName(prefix string, index int, ext string) string {
	return fmt.Sprintf("%s_%03d%s", prefix, index, ext)
}

// originalName returns the sanitized basename of rawURL, or empty string
// if the URL path has no basename with an extension.
func originalName(rawURL string) string {
	u, err := nurl.Parse(rawURL)
	if err != nil {
		return ""
	}

	base := pth.Base(u.Path)
	if base == "/" || base == "." || len(pth.Ext(base)) <= 1 {
		return ""
	}

	return sanitize.Name(base)
}

// fileNamer hands out file names that are unique within one batch.
type fileNamer struct {
	naming Naming
	used   map[string]struct{}
}

func newFileNamer(naming Naming) *fileNamer {
	return &fileNamer{
		naming: naming,
		used:   make(map[string]struct{}),
	}
}

// name returns the file name for item, which sits at the 1-based index
// in its batch.
func (n *fileNamer) name(item MediaItem, index int, contentType string) string {
	if n.naming == NamingOriginal {
		if name := originalName(item.URL); name != "" && !n.isUsed(name) {
			n.used[name] = struct{}{}
			return name
		}
	}

	// Sanitized names never contain underscore, so they can't clash
	// with the indexed ones.
	name := indexedName(filePrefix(item.Type), index, FileExtension(item.URL, contentType))
	n.used[name] = struct{}{}
	return name
}

func (n *fileNamer) isUsed(name string) bool {
	_, used := n.used[name]
	return used
}
