// Package sink writes finished images to disk or object storage.
package sink

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
)

// Sink stores an encoded image under a name
type Sink interface {
	Write(ctx context.Context, name string, img image.Image) error
}

// EncodePNG encodes img as PNG
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Load decodes an image file, picking the decoder from its contents
func Load(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load image %s: %w", path, err)
	}
	return img, nil
}

// Thumbnail scales img down so neither side exceeds maxDim, keeping the aspect
// ratio. Images already small enough are returned unchanged.
func Thumbnail(img image.Image, maxDim uint) image.Image {
	return resize.Thumbnail(maxDim, maxDim, img, resize.Bilinear)
}
