package mnist

import (
	"encoding/binary"
	"fmt"
	"io"
)

// IDX magic numbers.
const (
	ImageMagic = 2051 // 0x00000803: unsigned bytes, 3 dimensions
	LabelMagic = 2049 // 0x00000801: unsigned bytes, 1 dimension
)

// MaxItems bounds the item count accepted from an IDX header.
const MaxItems = 1 << 24

// ReadImages reads an image file in IDX format.
//
// IDX file format for images:
//
//	magic number: 0x00000803 (2051)
//	number of images: 4 bytes
//	number of rows: 4 bytes (28)
//	number of cols: 4 bytes (28)
//	pixel data: unsigned bytes (0-255)
//
// At most limit images are read when limit > 0.
func ReadImages(r io.Reader, limit int) (images [][]byte, rows, cols int, err error) {
	// Read magic number
	var magic uint32
	if err := binary.Read(r, binary.BigEndian, &magic); err != nil {
		return nil, 0, 0, fmt.Errorf("failed to read magic: %w", err)
	}
	if magic != ImageMagic {
		return nil, 0, 0, fmt.Errorf("got %d, want %d: %w", magic, ImageMagic, ErrInvalidMagic)
	}

	// Read dimensions
	var dims [3]uint32
	if err := binary.Read(r, binary.BigEndian, &dims); err != nil {
		return nil, 0, 0, fmt.Errorf("failed to read dimensions: %w", err)
	}
	count, err := itemCount(dims[0], limit)
	if err != nil {
		return nil, 0, 0, err
	}
	rows, cols = int(dims[1]), int(dims[2])
	if rows == 0 || cols == 0 || rows*cols > MaxItems {
		return nil, 0, 0, fmt.Errorf("image size %dx%d: %w", rows, cols, ErrInvalidHeader)
	}

	images = make([][]byte, count)
	for i := range images {
		images[i] = make([]byte, rows*cols)
		if _, err := io.ReadFull(r, images[i]); err != nil {
			return nil, 0, 0, fmt.Errorf("failed to read image %d: %w", i, err)
		}
	}

	return images, rows, cols, nil
}

// ReadLabels reads a label file in IDX format.
//
// IDX file format for labels:
//
//	magic number: 0x00000801 (2049)
//	number of labels: 4 bytes
//	label data: unsigned bytes (0-9)
//
// At most limit labels are read when limit > 0.
func ReadLabels(r io.Reader, limit int) ([]byte, error) {
	// Read magic number
	var magic uint32
	if err := binary.Read(r, binary.BigEndian, &magic); err != nil {
		return nil, fmt.Errorf("failed to read magic: %w", err)
	}
	if magic != LabelMagic {
		return nil, fmt.Errorf("got %d, want %d: %w", magic, LabelMagic, ErrInvalidMagic)
	}

	// Read number of labels
	var n uint32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return nil, fmt.Errorf("failed to read label count: %w", err)
	}
	count, err := itemCount(n, limit)
	if err != nil {
		return nil, err
	}

	labels := make([]byte, count)
	if _, err := io.ReadFull(r, labels); err != nil {
		return nil, fmt.Errorf("failed to read labels: %w", err)
	}
	for i, l := range labels {
		if l >= Classes {
			return nil, fmt.Errorf("label %d at index %d: %w", l, i, ErrLabelRange)
		}
	}

	return labels, nil
}

func itemCount(n uint32, limit int) (int, error) {
	if n > MaxItems {
		return 0, fmt.Errorf("%d items, max %d: %w", n, MaxItems, ErrInvalidHeader)
	}
	count := int(n)
	if limit > 0 && count > limit {
		count = limit
	}
	return count, nil
}
