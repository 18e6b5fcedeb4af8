package main

import (
	"bufio"
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	fp "path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-shiori/mpmedia"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articleURL = "https://mp.weixin.qq.com/s/ghrZ_XT5yMD70Ihf9_bHtA"

func runCmd(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	err := cmd.Execute()
	return out.String(), err
}

func TestParseInputFile(t *testing.T) {
	path := fp.Join(t.TempDir(), "urls.txt")
	content := "https://mp.weixin.qq.com/s/a\n\n  https://mp.weixin.qq.com/s/b  \n# skipped\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	urls, err := parseInputFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://mp.weixin.qq.com/s/a", "https://mp.weixin.qq.com/s/b"}, urls)

	_, err = parseInputFile(fp.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestFileNames(t *testing.T) {
	now := time.Unix(1754793462, 0)
	assert.Equal(t, "wechat_extraction_1754793462.json", recordFileName(now, mpmedia.FormatJSON))
	assert.Equal(t, "wechat_extraction_1754793462.yaml", recordFileName(now, mpmedia.FormatYAML))
	assert.Equal(t, "wechat_urls_1754793462.txt", urlListFileName(now))
}

func TestAskYesNo(t *testing.T) {
	answers := map[string]bool{
		"y\n":   true,
		"YES\n": true,
		" y ":   true,
		"n\n":   false,
		"\n":    false,
		"":      false,
		"maybe": false,
	}

	for input, expected := range answers {
		var out bytes.Buffer
		r := bufio.NewReader(strings.NewReader(input))
		assert.Equal(t, expected, askYesNo(r, &out, "Download?"), "%q", input)
		assert.Contains(t, out.String(), "Download? (y/n): ")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestPrintResult(t *testing.T) {
	result := &mpmedia.Result{
		Title:  "Test",
		URL:    articleURL,
		Images: []mpmedia.MediaItem{{URL: "https://mmbiz.qpic.cn/a/640", Type: mpmedia.TypeImage}},
	}

	var out bytes.Buffer
	assert.NoError(t, printResult(&out, result))
	assert.Contains(t, out.String(), "Found 1 images and 0 videos")
	assert.Contains(t, out.String(), "1. https://mmbiz.qpic.cn/a/640")

	assert.EqualError(t, printResult(failingWriter{}, result), "disk full")
}

func TestRootCmd_InputHTML(t *testing.T) {
	dir := t.TempDir()
	recordPath := fp.Join(dir, "record.yaml")

	out, err := runCmd(t, "",
		articleURL,
		"--input-html", "../../testdata/article.html",
		"--output", recordPath,
		"--url-list",
		"--no-download",
		"--quiet")
	require.NoError(t, err)

	assert.Contains(t, out, "Found 4 images and 5 videos")
	assert.Contains(t, out, "=== Images ===")
	assert.NotContains(t, out, "(y/n)")

	result, err := mpmedia.LoadRecord(recordPath)
	require.NoError(t, err)
	assert.Equal(t, articleURL, result.URL)
	assert.Len(t, result.Images, 4)
	assert.Len(t, result.Videos, 5)

	lists, err := fp.Glob(fp.Join(dir, "wechat_urls_*.txt"))
	require.NoError(t, err)
	assert.Len(t, lists, 1)
}

func TestRootCmd_Prompt(t *testing.T) {
	dir := t.TempDir()
	downloadDir := fp.Join(dir, "downloads")

	out, err := runCmd(t, articleURL+"\nn\n",
		"--input-html", "../../testdata/article.html",
		"--output", dir,
		"--format", "yaml",
		"--dir", downloadDir,
		"--quiet")
	require.NoError(t, err)

	assert.Contains(t, out, "Enter WeChat article URL: ")
	assert.Contains(t, out, "Download media files? (y/n): ")
	assert.NoDirExists(t, downloadDir)

	records, err := fp.Glob(fp.Join(dir, "wechat_extraction_*.yaml"))
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestRootCmd_InvalidReference(t *testing.T) {
	dir := t.TempDir()

	out, err := runCmd(t, "", "https://example.com/s/abc", "--output", dir, "--no-download")
	assert.Error(t, err)
	assert.Contains(t, out, "Error: invalid reference: https://example.com/s/abc")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRootCmd_NoURL(t *testing.T) {
	_, err := runCmd(t, "\n", "--quiet")
	assert.EqualError(t, err, "no url to process")
}

func TestDownloadCmd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("png data"))
	}))
	defer server.Close()

	dir := t.TempDir()
	recordPath := fp.Join(dir, "record.json")
	require.NoError(t, mpmedia.SaveRecord(recordPath, &mpmedia.Result{
		Title:  "Test",
		URL:    articleURL,
		Images: []mpmedia.MediaItem{{URL: server.URL + "/a.png", Type: mpmedia.TypeImage}},
	}))

	downloadDir := fp.Join(dir, "downloads")
	out, err := runCmd(t, "", "download", recordPath, "--dir", downloadDir, "--delay", "0s", "--quiet")
	require.NoError(t, err)
	assert.Contains(t, out, "Downloaded 1/1 images and 0/0 videos")

	images, err := fp.Glob(fp.Join(downloadDir, "*", "images", "image_001.png"))
	require.NoError(t, err)
	assert.Len(t, images, 1)

	manifests, err := fp.Glob(fp.Join(downloadDir, "*", mpmedia.ManifestFileName))
	require.NoError(t, err)
	assert.Len(t, manifests, 1)
}

func TestClientConfig_Env(t *testing.T) {
	t.Setenv("MPMEDIA_MAX_RETRIES", "3")
	t.Setenv("MPMEDIA_NAMING", "original")

	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--timeout", "10", "--delay", "1s"}))

	v, err := loadSettings(cmd)
	require.NoError(t, err)

	cfg := clientConfig(v)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, mpmedia.NamingOriginal, cfg.Naming)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, time.Second, cfg.Delay)
	assert.True(t, cfg.EnableLog)
}
