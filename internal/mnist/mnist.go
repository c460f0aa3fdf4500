// Package mnist loads MNIST-style IDX datasets and turns samples into
// graph inputs.
//
// Each sample binds two placeholders: ImageKey to the pixels scaled into
// [0, 1] as a column vector, and LabelKey to a one-hot column vector of
// Classes entries.
package mnist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/born-ml/graphgrad/internal/graph"
	"github.com/born-ml/graphgrad/internal/tensor"
)

// Classes is the number of digit classes.
const Classes = 10

// Placeholder names bound by Dataset.Input.
const (
	ImageKey = "x"
	LabelKey = "y"
)

// Standard file names inside a dataset directory.
const (
	TrainImages = "train-images-idx3-ubyte"
	TrainLabels = "train-labels-idx1-ubyte"
	TestImages  = "t10k-images-idx3-ubyte"
	TestLabels  = "t10k-labels-idx1-ubyte"
)

// Common errors.
var (
	ErrInvalidMagic  = errors.New("invalid IDX magic number")
	ErrInvalidHeader = errors.New("invalid IDX header")
	ErrLabelRange    = errors.New("label out of range")
	ErrCountMismatch = errors.New("image and label counts differ")
)

// Dataset holds images and their labels.
type Dataset struct {
	Images [][]byte // [samples][rows*cols]
	Labels []byte   // [samples]
	Rows   int
	Cols   int
}

// Files returns the standard image and label paths in dir.
func Files(dir string, train bool) (images, labels string) {
	if train {
		return filepath.Join(dir, TrainImages), filepath.Join(dir, TrainLabels)
	}
	return filepath.Join(dir, TestImages), filepath.Join(dir, TestLabels)
}

// Load reads an image file and a label file concurrently. At most limit
// samples are kept when limit > 0.
func Load(ctx context.Context, imagesPath, labelsPath string, limit int) (*Dataset, error) {
	var ds Dataset

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		f, err := os.Open(imagesPath)
		if err != nil {
			return err
		}
		defer f.Close()

		ds.Images, ds.Rows, ds.Cols, err = ReadImages(contextReader{gctx, f}, limit)
		if err != nil {
			return fmt.Errorf("%s: %w", imagesPath, err)
		}
		return nil
	})
	g.Go(func() error {
		f, err := os.Open(labelsPath)
		if err != nil {
			return err
		}
		defer f.Close()

		ds.Labels, err = ReadLabels(contextReader{gctx, f}, limit)
		if err != nil {
			return fmt.Errorf("%s: %w", labelsPath, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(ds.Images) != len(ds.Labels) {
		return nil, fmt.Errorf("%d images, %d labels: %w", len(ds.Images), len(ds.Labels), ErrCountMismatch)
	}
	return &ds, nil
}

// contextReader fails reads once ctx is done, so a failed or canceled
// load stops the other file's reader.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

// LoadDir loads the training or test split from a dataset directory.
func LoadDir(ctx context.Context, dir string, train bool, limit int) (*Dataset, error) {
	images, labels := Files(dir, train)
	return Load(ctx, images, labels, limit)
}

// Len returns the number of samples.
func (d *Dataset) Len() int {
	return len(d.Labels)
}

// Pixels returns the number of pixels per image.
func (d *Dataset) Pixels() int {
	return d.Rows * d.Cols
}

// Input returns the placeholder bindings for sample i: the image as a
// [pixels, 1] column scaled into [0, 1] and the label as a one-hot
// [Classes, 1] column.
func (d *Dataset) Input(i int) graph.Input {
	img := d.Images[i]
	x := make([]float64, len(img))
	for j, p := range img {
		x[j] = float64(p) / 255
	}

	y := make([]float64, Classes)
	y[d.Labels[i]] = 1

	return graph.Input{
		ImageKey: tensor.MustFromSlice(x, tensor.Shape{len(x), 1}),
		LabelKey: tensor.MustFromSlice(y, tensor.Shape{Classes, 1}),
	}
}

// Batch returns the inputs for the given sample indices.
func (d *Dataset) Batch(indices []int) []graph.Input {
	batch := make([]graph.Input, len(indices))
	for i, idx := range indices {
		batch[i] = d.Input(idx)
	}
	return batch
}
