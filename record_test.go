package mpmedia

import (
	"bytes"
	"encoding/json"
	fp "path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *Result {
	return &Result{
		Title: "春天的婚礼 & 花絮",
		URL:   articleURL,
		Images: []MediaItem{
			{URL: "https://mmbiz.qpic.cn/mmbiz_jpg/abc/640?wx_fmt=jpeg&from=appmsg", Type: TypeImage, Alt: "封面"},
			{URL: "https://mmbiz.qpic.cn/mmbiz_png/def/640", Type: TypeImage},
		},
		Videos: []MediaItem{
			{URL: "https://v.qq.com/txp/iframe/player.html?vid=x0001", Type: TypeIframeVideo, Platform: PlatformTencent},
			{
				URL:      "https://mp.weixin.qq.com/mp/readtemplate?t=pages/video_player_tmpl&action=mpvideo&auto=0&vid=wxv_1",
				Type:     TypeWechatVideo,
				Platform: PlatformWechat,
				VID:      "wxv_1",
			},
		},
	}
}

func TestRecord_RoundTrip(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			result := sampleResult()
			data, err := MarshalRecord(result, format)
			require.NoError(t, err)

			parsed, err := UnmarshalRecord(data, format)
			require.NoError(t, err)
			assert.Equal(t, result, parsed)
		})
	}
}

func TestRecord_RoundTripWithOutcomes(t *testing.T) {
	result := sampleResult()
	result.DownloadedImages = []Outcome{
		{OriginalURL: result.Images[0].URL, LocalPath: "images/image_001.jpg", Type: TypeImage, Success: true, Bytes: 1024, MediaType: "image/jpeg"},
		{OriginalURL: result.Images[1].URL, Type: TypeImage, Error: "download item failure"},
	}

	path := fp.Join(t.TempDir(), "record.json")
	require.NoError(t, SaveRecord(path, result))

	loaded, err := LoadRecord(path)
	require.NoError(t, err)
	assert.Equal(t, result, loaded)
}

func TestRecord_JSONLayout(t *testing.T) {
	data, err := MarshalRecord(sampleResult(), FormatJSON)
	require.NoError(t, err)

	// Non ASCII text and & are kept as they are
	assert.Contains(t, string(data), "春天的婚礼 & 花絮")
	assert.Contains(t, string(data), "wx_fmt=jpeg&from=appmsg")
	assert.Contains(t, string(data), "\n  \"images\": [")

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, articleURL, raw["url"])
	assert.NotContains(t, raw, "downloaded_images")

	images := raw["images"].([]interface{})
	second := images[1].(map[string]interface{})
	assert.Equal(t, map[string]interface{}{
		"url":  "https://mmbiz.qpic.cn/mmbiz_png/def/640",
		"alt":  "",
		"type": "image",
	}, second)

	videos := raw["videos"].([]interface{})
	assert.NotContains(t, videos[0].(map[string]interface{}), "vid")
	assert.Equal(t, "wxv_1", videos[1].(map[string]interface{})["vid"])
}

func TestRecord_Empty(t *testing.T) {
	result := &Result{Title: UnknownTitle, URL: articleURL}

	data, err := MarshalRecord(result, FormatJSON)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"images": []`)
	assert.Contains(t, string(data), `"videos": []`)

	parsed, err := UnmarshalRecord(data, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, result, parsed)
}

func TestRecord_Errors(t *testing.T) {
	_, err := MarshalRecord(sampleResult(), Format("xml"))
	assert.Error(t, err)

	_, err = UnmarshalRecord([]byte("{not json"), FormatJSON)
	assert.Error(t, err)

	_, err = LoadRecord(fp.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatFromPath("wechat_extraction_1.json"))
	assert.Equal(t, FormatYAML, FormatFromPath("record.yaml"))
	assert.Equal(t, FormatYAML, FormatFromPath("RECORD.YML"))
	assert.Equal(t, FormatJSON, FormatFromPath("record"))
}

func TestWriteURLList(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	require.NoError(t, WriteURLList(buf, sampleResult()))

	expected := "Article: 春天的婚礼 & 花絮\n" +
		"Source: " + articleURL + "\n\n" +
		"=== Images ===\n" +
		"1. https://mmbiz.qpic.cn/mmbiz_jpg/abc/640?wx_fmt=jpeg&from=appmsg\n" +
		"2. https://mmbiz.qpic.cn/mmbiz_png/def/640\n\n" +
		"=== Videos ===\n" +
		"1. [tencent] https://v.qq.com/txp/iframe/player.html?vid=x0001\n" +
		"2. [wechat] https://mp.weixin.qq.com/mp/readtemplate?t=pages/video_player_tmpl&action=mpvideo&auto=0&vid=wxv_1\n"
	assert.Equal(t, expected, buf.String())
}
