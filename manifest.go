package mpmedia

import (
	"context"
	"fmt"
	"os"
	fp "path/filepath"
	"strings"
	"time"

	"github.com/kennygrant/sanitize"
	"github.com/pkg/errors"
)

const (
	// ManifestFileName is the name of manifest inside the download folder.
	ManifestFileName = "download_info.json"

	manifestTimeLayout = "2006-01-02 15:04:05"
	defaultFolderName  = "wechat_media"
	imagesFolder       = "images"
	videosFolder       = "videos"
)

// Manifest summarizes one finished download of an article.
type Manifest struct {
	Title          string `json:"title" yaml:"title"`
	URL            string `json:"url" yaml:"url"`
	DownloadTime   string `json:"download_time" yaml:"download_time"`
	TotalImages    int    `json:"total_images" yaml:"total_images"`
	TotalVideos    int    `json:"total_videos" yaml:"total_videos"`
	DownloadFolder string `json:"download_folder" yaml:"download_folder"`
}

// DownloadResult downloads all media of result into a new timestamped
// folder inside outputDir, with images and videos in their own sub
// folders, then writes the manifest at the folder root. It returns the
// manifest and a copy of result that holds the download outcomes.
func (d *Downloader) DownloadResult(ctx context.Context, result *Result, outputDir string) (*Manifest, *Result, error) {
	now := d.now()
	folder := fp.Join(outputDir, folderName(result.Title, now))
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return nil, nil, errors.Wrapf(err, "failed to create directory %s", folder)
	}
	d.logf("download folder: %s", folder)

	enriched := *result
	enriched.DownloadedImages = nil
	enriched.DownloadedVideos = nil

	if len(result.Images) > 0 {
		d.logf("downloading %d images", len(result.Images))
		outcomes, err := d.DownloadAll(ctx, result.Images, fp.Join(folder, imagesFolder))
		if err != nil {
			return nil, nil, err
		}
		enriched.DownloadedImages = outcomes
	}

	if len(result.Videos) > 0 {
		d.logf("downloading %d videos", len(result.Videos))
		outcomes, err := d.DownloadAll(ctx, result.Videos, fp.Join(folder, videosFolder))
		if err != nil {
			return nil, nil, err
		}
		enriched.DownloadedVideos = outcomes
	}

	manifest := &Manifest{
		Title:          result.Title,
		URL:            result.URL,
		DownloadTime:   now.Format(manifestTimeLayout),
		TotalImages:    len(result.Images),
		TotalVideos:    len(result.Videos),
		DownloadFolder: folder,
	}

	manifestPath := fp.Join(folder, ManifestFileName)
	if err := writeJSONFile(manifestPath, manifest); err != nil {
		return nil, nil, err
	}
	d.logf("manifest saved to %s", manifestPath)

	return manifest, &enriched, nil
}

// LoadManifest reads a manifest written by DownloadResult.
func LoadManifest(path string) (*Manifest, error) {
	var manifest Manifest
	if err := readJSONFile(path, &manifest); err != nil {
		return nil, err
	}
	return &manifest, nil
}

// folderName creates name for the download folder from article title.
// Titles which can't be used as file name fall back to a generic name.
func folderName(title string, now time.Time) string {
	name := ""
	if title != "" && title != UnknownTitle {
		name = strings.Trim(sanitize.BaseName(title), "-_ ")
	}

	if name == "" {
		name = defaultFolderName
	}

	return fmt.Sprintf("%s_%d", name, now.Unix())
}
