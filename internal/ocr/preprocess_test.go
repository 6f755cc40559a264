package ocr

import (
	"bytes"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectImageFormat(t *testing.T) {
	assert.Equal(t, "png", DetectImageFormat([]byte("\x89PNG\r\n\x1a\n")))
	assert.Equal(t, "jpeg", DetectImageFormat([]byte("\xff\xd8\xff\xe0")))
	assert.Equal(t, "gif", DetectImageFormat([]byte("GIF89a")))
	assert.Equal(t, "webp", DetectImageFormat([]byte("RIFFxxxxWEBP")))
	// Unknown data falls back to jpeg, the most common scan format.
	assert.Equal(t, "jpeg", DetectImageFormat([]byte("garbage")))
}

func TestPreprocessImagePassesThroughUndecodable(t *testing.T) {
	input := []byte("not an image")
	assert.Equal(t, input, PreprocessImage(input))
}

func TestPreprocessImageReencodesAsJPEG(t *testing.T) {
	var buf bytes.Buffer
	src := imaging.New(32, 32, color.White)
	require.NoError(t, imaging.Encode(&buf, src, imaging.PNG))

	out := PreprocessImage(buf.Bytes())
	require.NotEmpty(t, out)
	assert.Equal(t, "jpeg", DetectImageFormat(out))
}

func TestFormatMIME(t *testing.T) {
	assert.Equal(t, "image/png", formatMIME("png"))
	assert.Equal(t, "image/jpeg", formatMIME("jpeg"))
}
