package pipeline

import (
	"bytes"
	"image"
	"unicode/utf8"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/tonegraph/pkg/errors"
	"github.com/matzehuels/tonegraph/pkg/graph"
	"github.com/matzehuels/tonegraph/pkg/notation/parsers"
)

// Extract runs the named parser over input without caching.
//
// Input that decodes as an image (PNG, JPEG, GIF, BMP, TIFF, WebP) goes to the
// parser's raster side and anything else to its text side. A parser that
// cannot read the given kind of input fails with INVALID_INPUT.
func Extract(parserName string, input []byte) (*graph.Graph, error) {
	p, err := parsers.Lookup(parserName)
	if err != nil {
		return nil, err
	}

	if p.AcceptsImage() {
		if img, err := DecodeImage(input); err == nil {
			return p.Image.ParseImage(img), nil
		} else if !p.AcceptsText() {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parser %q needs an image", parserName)
		}
	}
	if !utf8.Valid(input) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "parser %q needs UTF-8 text", parserName)
	}
	return p.Text.Parse(string(input)), nil
}

// DecodeImage decodes a raster image, honoring EXIF orientation.
func DecodeImage(data []byte) (image.Image, error) {
	return imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
}
