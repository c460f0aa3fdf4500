package tensor

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Text format:
//
//	line 1: dimension sizes, space separated (empty for a scalar)
//	line 2: Shape().NumElements() values in row-major order
//
// Values are written with the shortest representation that parses back to
// the same float64.

// WriteText writes t in the text format.
func WriteText(w io.Writer, t *Tensor) error {
	bw := bufio.NewWriter(w)

	for i, dim := range t.shape {
		if i > 0 {
			bw.WriteByte(' ')
		}
		bw.WriteString(strconv.Itoa(dim))
	}
	bw.WriteByte('\n')

	var buf []byte
	for i, v := range t.data {
		if i > 0 {
			bw.WriteByte(' ')
		}
		buf = strconv.AppendFloat(buf[:0], v, 'g', -1, 64)
		bw.Write(buf)
	}
	bw.WriteByte('\n')

	return bw.Flush()
}

// ReadText reads one tensor in the text format from r.
//
// r is wrapped in a bufio.Reader unless it already is one, so several
// tensors can be read back to back from a shared *bufio.Reader.
func ReadText(r io.Reader) (*Tensor, error) {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}

	shapeLine, err := readLine(br)
	if err != nil {
		return nil, fmt.Errorf("read shape line: %w", err)
	}
	fields := strings.Fields(shapeLine)
	shape := make(Shape, len(fields))
	for i, f := range fields {
		dim, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid dimension %q: %w", f, err)
		}
		shape[i] = dim
	}

	t, err := New(shape)
	if err != nil {
		return nil, err
	}

	valueLine, err := readLine(br)
	if err != nil {
		return nil, fmt.Errorf("read value line: %w", err)
	}
	values := strings.Fields(valueLine)
	if len(values) != len(t.data) {
		return nil, fmt.Errorf("shape %v needs %d values, got %d", shape, len(t.data), len(values))
	}
	for i, f := range values {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q at position %d: %w", f, i, err)
		}
		t.data[i] = v
	}

	return t, nil
}

// readLine returns the next line without its terminator. A final line
// missing its newline is accepted.
func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r"), nil
		}
		if errors.Is(err, io.EOF) {
			return "", io.ErrUnexpectedEOF
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// FormatMatrix writes a rank-2 tensor one row per line, values separated by
// spaces. When transposed is set, columns are written as rows.
func FormatMatrix(w io.Writer, t *Tensor, transposed bool) error {
	if len(t.shape) != 2 {
		return fmt.Errorf("format matrix: tensor of shape %v is not a matrix", t.shape)
	}

	rows, cols := t.shape[0], t.shape[1]
	if transposed {
		rows, cols = cols, rows
	}

	bw := bufio.NewWriter(w)
	var buf []byte
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			var v float64
			if transposed {
				v = t.At(j, i)
			} else {
				v = t.At(i, j)
			}
			buf = strconv.AppendFloat(buf[:0], v, 'g', -1, 64)
			bw.Write(buf)
			bw.WriteByte(' ')
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
