package mpmedia

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	fp "path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a persisted extraction record.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the record format from the file extension.
// Anything that is not .yaml or .yml is treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(fp.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

type record struct {
	Title            string          `json:"title" yaml:"title"`
	URL              string          `json:"url" yaml:"url"`
	Images           []imageRecord   `json:"images" yaml:"images"`
	Videos           []videoRecord   `json:"videos" yaml:"videos"`
	DownloadedImages []outcomeRecord `json:"downloaded_images,omitempty" yaml:"downloaded_images,omitempty"`
	DownloadedVideos []outcomeRecord `json:"downloaded_videos,omitempty" yaml:"downloaded_videos,omitempty"`
}

type imageRecord struct {
	URL  string   `json:"url" yaml:"url"`
	Alt  string   `json:"alt" yaml:"alt"`
	Type ItemType `json:"type" yaml:"type"`
}

type videoRecord struct {
	URL      string   `json:"url" yaml:"url"`
	Type     ItemType `json:"type" yaml:"type"`
	Platform Platform `json:"platform" yaml:"platform"`
	VID      string   `json:"vid,omitempty" yaml:"vid,omitempty"`
}

type outcomeRecord struct {
	OriginalURL string   `json:"original_url" yaml:"original_url"`
	LocalPath   string   `json:"local_path,omitempty" yaml:"local_path,omitempty"`
	Type        ItemType `json:"type" yaml:"type"`
	Success     bool     `json:"success" yaml:"success"`
	Bytes       int      `json:"bytes,omitempty" yaml:"bytes,omitempty"`
	MediaType   string   `json:"media_type,omitempty" yaml:"media_type,omitempty"`
	Error       string   `json:"error,omitempty" yaml:"error,omitempty"`
}

// MarshalRecord encodes result as a human readable record.
func MarshalRecord(result *Result, format Format) ([]byte, error) {
	rec := toRecord(result)

	switch format {
	case FormatYAML:
		return yaml.Marshal(rec)
	case FormatJSON, "":
		buf := bytes.NewBuffer(nil)
		if err := encodeJSON(buf, rec); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown record format %q", format)
	}
}

// UnmarshalRecord decodes a record created by MarshalRecord.
func UnmarshalRecord(data []byte, format Format) (*Result, error) {
	var rec record
	var err error

	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &rec)
	case FormatJSON, "":
		err = json.Unmarshal(data, &rec)
	default:
		return nil, fmt.Errorf("unknown record format %q", format)
	}

	if err != nil {
		return nil, errors.Wrap(err, "failed to decode record")
	}

	return fromRecord(rec), nil
}

// SaveRecord writes result to path, in the format given by its extension.
func SaveRecord(path string, result *Result) error {
	data, err := MarshalRecord(result, FormatFromPath(path))
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to save record %s", path)
	}
	return nil
}

// LoadRecord reads a record saved by SaveRecord.
func LoadRecord(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read record %s", path)
	}
	return UnmarshalRecord(data, FormatFromPath(path))
}

// WriteURLList writes a plain text list of every media URL in result.
func WriteURLList(w io.Writer, result *Result) error {
	buf := bytes.NewBuffer(nil)
	fmt.Fprintf(buf, "Article: %s\n", result.Title)
	fmt.Fprintf(buf, "Source: %s\n\n", result.URL)

	if len(result.Images) > 0 {
		buf.WriteString("=== Images ===\n")
		for i, img := range result.Images {
			fmt.Fprintf(buf, "%d. %s\n", i+1, img.URL)
		}
		buf.WriteString("\n")
	}

	if len(result.Videos) > 0 {
		buf.WriteString("=== Videos ===\n")
		for i, video := range result.Videos {
			fmt.Fprintf(buf, "%d. [%s] %s\n", i+1, video.Platform, video.URL)
		}
	}

	_, err := w.Write(buf.Bytes())
	return err
}

func toRecord(result *Result) record {
	rec := record{
		Title:  result.Title,
		URL:    result.URL,
		Images: make([]imageRecord, 0, len(result.Images)),
		Videos: make([]videoRecord, 0, len(result.Videos)),
	}

	for _, img := range result.Images {
		rec.Images = append(rec.Images, imageRecord{URL: img.URL, Alt: img.Alt, Type: img.Type})
	}

	for _, video := range result.Videos {
		rec.Videos = append(rec.Videos, videoRecord{
			URL:      video.URL,
			Type:     video.Type,
			Platform: video.Platform,
			VID:      video.VID,
		})
	}

	rec.DownloadedImages = toOutcomeRecords(result.DownloadedImages)
	rec.DownloadedVideos = toOutcomeRecords(result.DownloadedVideos)
	return rec
}

func fromRecord(rec record) *Result {
	result := &Result{
		Title: rec.Title,
		URL:   rec.URL,
	}

	for _, img := range rec.Images {
		result.Images = append(result.Images, MediaItem{URL: img.URL, Type: img.Type, Alt: img.Alt})
	}

	for _, video := range rec.Videos {
		result.Videos = append(result.Videos, MediaItem{
			URL:      video.URL,
			Type:     video.Type,
			Platform: video.Platform,
			VID:      video.VID,
		})
	}

	result.DownloadedImages = fromOutcomeRecords(rec.DownloadedImages)
	result.DownloadedVideos = fromOutcomeRecords(rec.DownloadedVideos)
	return result
}

func toOutcomeRecords(outcomes []Outcome) []outcomeRecord {
	var records []outcomeRecord
	for _, o := range outcomes {
		records = append(records, outcomeRecord(o))
	}
	return records
}

func fromOutcomeRecords(records []outcomeRecord) []Outcome {
	var outcomes []Outcome
	for _, r := range records {
		outcomes = append(outcomes, Outcome(r))
	}
	return outcomes
}

// encodeJSON writes indented JSON and keeps characters like & and
// non-ASCII text as they are.
func encodeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeJSONFile(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	defer f.Close()

	if err := encodeJSON(f, v); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return f.Close()
}

func readJSONFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", path)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrapf(err, "failed to decode %s", path)
	}
	return nil
}
