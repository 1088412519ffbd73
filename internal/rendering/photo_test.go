package rendering

import (
	"bytes"
	"context"
	"encoding/base64"
	"image/color"
	"image/gif"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dataURL(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func TestParseDataURL(t *testing.T) {
	got, err := ParseDataURL(dataURL("image/PNG", []byte("abc")))
	require.NoError(t, err)
	assert.Equal(t, "image/png", got.MIME)
	assert.Equal(t, []byte("abc"), got.Data)

	_, err = ParseDataURL("https://example.com/foto.png")
	assert.ErrorIs(t, err, ErrInvalidDataURL)

	_, err = ParseDataURL("data:image/png;base64,@@@")
	assert.ErrorIs(t, err, ErrInvalidDataURL)
}

func TestPreparePhoto_Empty(t *testing.T) {
	p, err := PreparePhoto(context.Background(), "  ", nil)
	assert.NoError(t, err)
	assert.Nil(t, p)
}

func TestPreparePhoto_PassThrough(t *testing.T) {
	raw := pngBytes(t)

	p, err := PreparePhoto(context.Background(), dataURL("image/png", raw), nil)
	require.NoError(t, err)
	assert.Equal(t, MIMEPNG, p.MIME)
	assert.Equal(t, raw, p.Data)

	p, err = PreparePhoto(context.Background(), dataURL("image/jpg", []byte("jpeg")), nil)
	require.NoError(t, err)
	assert.Equal(t, MIMEJPEG, p.MIME)
}

func TestPreparePhoto_NoTranscoder(t *testing.T) {
	_, err := PreparePhoto(context.Background(), dataURL("image/webp", []byte("RIFF")), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTranscoderUnavailable)
	assert.NotErrorIs(t, err, ErrUnsupportedPhotoFormat)

	var photoErr *PhotoError
	require.ErrorAs(t, err, &photoErr)
	assert.Equal(t, "image/webp", photoErr.MIME)
}

func TestPreparePhoto_Transcodes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, testImage(), nil))

	p, err := PreparePhoto(context.Background(), dataURL("image/gif", buf.Bytes()), ImageTranscoder{})
	require.NoError(t, err)
	assert.Equal(t, MIMEPNG, p.MIME)

	img, err := png.Decode(bytes.NewReader(p.Data))
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
}

func TestImageTranscoder_SixteenBitToEightBit(t *testing.T) {
	out, err := ImageTranscoder{}.ToPNG(context.Background(), sixteenBitPNG(t))
	require.NoError(t, err)

	cfg, err := png.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.True(t, cfg.ColorModel != color.RGBA64Model && cfg.ColorModel != color.NRGBA64Model, "output should be 8-bit")
	assert.Equal(t, 8, cfg.Width)
}

func TestPreparePhoto_Undecodable(t *testing.T) {
	_, err := PreparePhoto(context.Background(), dataURL("image/webp", []byte("garbage")), ImageTranscoder{})
	assert.ErrorIs(t, err, ErrUnsupportedPhotoFormat)
	assert.NotErrorIs(t, err, ErrTranscoderUnavailable)
}

func TestImageTranscoder_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ImageTranscoder{}.ToPNG(ctx, pngBytes(t))
	assert.ErrorIs(t, err, context.Canceled)
}
