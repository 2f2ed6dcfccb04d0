package ioutils

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoder registration

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // thumbnails embedded by the download tool are often WebP
)

// JPEGQuality is the quality used for every re-encoded cover.
const JPEGQuality = 90

// ImageService normalizes embedded cover art.
//
// Thumbnails embedded by the download tool come in whatever size and format
// the video platform served. ImageService scales them down and re-encodes
// them as JPEG.
//
// Example:
//
//	svc := NewImageService()
//	cover, changed, err := svc.Normalize(ctx, picture, 1000)
type ImageService struct{}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{}
}

// Dimensions returns the width and height of an encoded image without
// decoding the pixel data.
func (s *ImageService) Dimensions(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

// ResizeImage scales data to fit within maxWidth x maxHeight keeping the
// aspect ratio, and returns it as JPEG. Smaller images keep their size but
// are still re-encoded.
//
// Scaling uses Catmull-Rom.
func (s *ImageService) ResizeImage(ctx context.Context, data []byte, maxWidth, maxHeight int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width, height := fitWithin(bounds.Dx(), bounds.Dy(), maxWidth, maxHeight)

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	return encodeJPEG(dst)
}

// ConvertToJPEG re-encodes data as JPEG.
func (s *ImageService) ConvertToJPEG(ctx context.Context, data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return encodeJPEG(img)
}

// Normalize shrinks data to fit a maxSize square when it is larger, and
// converts it to JPEG when toJPEG is set. It reports whether the returned
// bytes differ from data. A maxSize of 0 disables resizing.
func (s *ImageService) Normalize(ctx context.Context, data []byte, maxSize int, toJPEG bool) ([]byte, bool, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return data, false, err
	}

	if maxSize > 0 && (cfg.Width > maxSize || cfg.Height > maxSize) {
		out, err := s.ResizeImage(ctx, data, maxSize, maxSize)
		if err != nil {
			return data, false, err
		}
		return out, true, nil
	}

	if toJPEG && format != "jpeg" {
		out, err := s.ConvertToJPEG(ctx, data)
		if err != nil {
			return data, false, err
		}
		return out, true, nil
	}

	return data, false, nil
}

func fitWithin(width, height, maxWidth, maxHeight int) (int, int) {
	if width <= maxWidth && height <= maxHeight {
		return width, height
	}
	ratio := float64(width) / float64(height)
	if float64(maxWidth)/float64(maxHeight) > ratio {
		return max(1, int(float64(maxHeight)*ratio)), maxHeight
	}
	return maxWidth, max(1, int(float64(maxWidth)/ratio))
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
