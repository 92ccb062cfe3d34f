package imageio

import (
	"fmt"
	"io"
	"sort"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
)

// Compressor wraps a streaming codec for radiance dumps
type Compressor interface {
	// Name is the identifier accepted on the command line
	Name() string
	// ID is the codec tag stored in the dump header
	ID() uint32
	NewWriter(w io.Writer) (io.WriteCloser, error)
	NewReader(r io.Reader) (io.ReadCloser, error)
}

type noneCompressor struct{}

func (noneCompressor) Name() string { return "none" }
func (noneCompressor) ID() uint32   { return 0 }

func (noneCompressor) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return nopWriteCloser{w}, nil
}

func (noneCompressor) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(r), nil
}

type zstdCompressor struct{}

func (zstdCompressor) Name() string { return "zstd" }
func (zstdCompressor) ID() uint32   { return 1 }

func (zstdCompressor) NewWriter(w io.Writer) (io.WriteCloser, error) {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return nil, fmt.Errorf("zstd writer: %w", err)
	}
	return enc, nil
}

func (zstdCompressor) NewReader(r io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	return dec.IOReadCloser(), nil
}

type snappyCompressor struct{}

func (snappyCompressor) Name() string { return "snappy" }
func (snappyCompressor) ID() uint32   { return 2 }

func (snappyCompressor) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return snappy.NewBufferedWriter(w), nil
}

func (snappyCompressor) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(snappy.NewReader(r)), nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

var compressors = []Compressor{noneCompressor{}, zstdCompressor{}, snappyCompressor{}}

// DefaultCompressor is used when no codec is named
const DefaultCompressor = "zstd"

// CompressorByName resolves a codec name ("zstd", "snappy" or "none")
func CompressorByName(name string) (Compressor, error) {
	if name == "" {
		name = DefaultCompressor
	}
	for _, c := range compressors {
		if c.Name() == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("unknown codec %q (expected one of %v)", name, CompressorNames())
}

// CompressorNames lists the supported codec names
func CompressorNames() []string {
	names := make([]string, 0, len(compressors))
	for _, c := range compressors {
		names = append(names, c.Name())
	}
	sort.Strings(names)
	return names
}

func compressorByID(id uint32) (Compressor, bool) {
	for _, c := range compressors {
		if c.ID() == id {
			return c, true
		}
	}
	return nil, false
}
