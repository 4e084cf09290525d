// Package clipboard publishes exports and shape records on the system
// clipboard. Images travel as PNG and shapes as their JSON text.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"

	"github.com/example/shineymark/internal/export"
	"github.com/example/shineymark/internal/shape"
)

var (
	errNoImage = errors.New("clipboard does not contain image data")
	errNoText  = errors.New("clipboard does not contain text data")
)

// format is a clipboard payload kind.
type format int

const (
	formatPNG format = iota
	formatText
)

// backend moves raw payloads to and from the system clipboard.
type backend interface {
	write(f format, data []byte) error
	read(f format) ([]byte, error)
}

// current returns the process-wide backend, initializing it on first use.
var current = acquire

func put(f format, data []byte) error {
	b, err := current()
	if err != nil {
		return err
	}
	return b.write(f, data)
}

func get(f format) ([]byte, error) {
	b, err := current()
	if err != nil {
		return nil, err
	}
	return b.read(f)
}

// WriteImage encodes the provided image as PNG and publishes it to the clipboard.
func WriteImage(img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	return put(formatPNG, buf.Bytes())
}

// WriteExport publishes an encoded export. Only PNG results can be placed
// on the clipboard.
func WriteExport(res export.Result) error {
	if res.Format != export.PNG && res.Format != "" {
		return fmt.Errorf("%w: clipboard takes png, got %s", export.ErrUnsupportedFormat, res.Format)
	}
	if len(res.Data) == 0 {
		return export.ErrNotReady
	}
	return put(formatPNG, res.Data)
}

// ReadImage retrieves PNG image data from the clipboard and decodes it.
func ReadImage() (image.Image, error) {
	data, err := get(formatPNG)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errNoImage
	}
	return png.Decode(bytes.NewReader(data))
}

// WriteText writes text data to the clipboard.
func WriteText(text string) error {
	return put(formatText, []byte(text))
}

// ReadText returns UTF-8 text data from the clipboard.
func ReadText() (string, error) {
	data, err := get(formatText)
	if err != nil {
		return "", err
	}
	// Trim trailing null byte some applications include in STRING responses.
	data = bytes.TrimSuffix(data, []byte{0})
	if len(data) == 0 {
		return "", errNoText
	}
	return string(data), nil
}

// WriteShapes copies shape records as JSON text.
func WriteShapes(list []shape.Shape) error {
	data, err := shape.MarshalIndent(list)
	if err != nil {
		return err
	}
	return put(formatText, data)
}

// ReadShapes parses shape records from clipboard text.
func ReadShapes() ([]shape.Shape, error) {
	text, err := ReadText()
	if err != nil {
		return nil, err
	}
	list, err := shape.Decode(text)
	if err != nil {
		return nil, fmt.Errorf("clipboard shapes: %w", err)
	}
	return list, nil
}
