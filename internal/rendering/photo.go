package rendering

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif" // registers GIF for ImageTranscoder
	_ "image/jpeg"
	"image/png"
	"regexp"
	"strings"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"  // registers BMP
	_ "golang.org/x/image/tiff" // registers TIFF
	_ "golang.org/x/image/webp" // registers WEBP
)

// Photo MIME types embedded without conversion.
const (
	MIMEPNG  = "image/png"
	MIMEJPEG = "image/jpeg"
)

var dataURLRe = regexp.MustCompile(`^data:(.+);base64,(.*)$`)

// DataURL is a decoded base64 data URL.
type DataURL struct {
	MIME string
	Data []byte
}

// ParseDataURL decodes "data:<mime>;base64,<payload>".
func ParseDataURL(s string) (*DataURL, error) {
	m := dataURLRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return nil, ErrInvalidDataURL
	}
	data, err := base64.StdEncoding.DecodeString(m[2])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	return &DataURL{MIME: strings.ToLower(strings.TrimSpace(m[1])), Data: data}, nil
}

// Photo is a raster image ready to embed. MIME is always MIMEPNG or MIMEJPEG
// after PreparePhoto.
type Photo struct {
	MIME string
	Data []byte
}

// IsPNG reports whether the photo is PNG encoded.
func (p *Photo) IsPNG() bool {
	return p.MIME == MIMEPNG
}

// Transcoder converts arbitrary raster bytes to PNG.
type Transcoder interface {
	ToPNG(ctx context.Context, data []byte) ([]byte, error)
}

// ImageTranscoder decodes with the image package registry (PNG, JPEG, GIF,
// WEBP, BMP, TIFF) and re-encodes as PNG.
type ImageTranscoder struct{}

// ToPNG implements Transcoder.
func (ImageTranscoder) ToPNG(ctx context.Context, data []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedPhotoFormat, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, to8Bit(img)); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// to8Bit converts 16-bit images to NRGBA. png.Encode keeps the source depth and
// the PDF backend only embeds 8-bit PNGs.
func to8Bit(img image.Image) image.Image {
	switch img.(type) {
	case *image.RGBA64, *image.NRGBA64, *image.Gray16:
		b := img.Bounds()
		dst := image.NewNRGBA(b)
		draw.Draw(dst, b, img, b.Min, draw.Src)
		return dst
	}
	return img
}

// normalizeMIME maps the MIME aliases browsers send to MIMEPNG or MIMEJPEG.
// It returns "" for anything else.
func normalizeMIME(mime string) string {
	switch {
	case strings.Contains(mime, "png"):
		return MIMEPNG
	case strings.Contains(mime, "jpeg"), strings.Contains(mime, "jpg"):
		return MIMEJPEG
	}
	return ""
}

// PreparePhoto decodes a data URL into an embeddable photo. PNG and JPEG pass
// through untouched; every other format goes through tc. An empty dataURL
// yields a nil photo and no error.
func PreparePhoto(ctx context.Context, dataURL string, tc Transcoder) (*Photo, error) {
	if strings.TrimSpace(dataURL) == "" {
		return nil, nil
	}

	parsed, err := ParseDataURL(dataURL)
	if err != nil {
		return nil, &PhotoError{Err: err}
	}

	if mime := normalizeMIME(parsed.MIME); mime != "" {
		return &Photo{MIME: mime, Data: parsed.Data}, nil
	}

	if tc == nil {
		return nil, &PhotoError{MIME: parsed.MIME, Err: ErrTranscoderUnavailable}
	}

	out, err := tc.ToPNG(ctx, parsed.Data)
	if err != nil {
		return nil, &PhotoError{MIME: parsed.MIME, Err: err}
	}
	return &Photo{MIME: MIMEPNG, Data: out}, nil
}
