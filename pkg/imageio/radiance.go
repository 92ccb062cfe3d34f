package imageio

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// ErrBadRadianceHeader is returned when a dump does not start with a valid header
var ErrBadRadianceHeader = errors.New("bad radiance header")

var radianceMagic = [4]byte{'R', 'A', 'D', '1'}

// maxRadianceDim bounds the dimensions accepted from a header
const maxRadianceDim = 1 << 15

// radianceHeader is the fixed 16-byte preamble of a dump
type radianceHeader struct {
	Magic  [4]byte
	Width  uint32
	Height uint32
	Codec  uint32
}

// WriteRadiance stores the linear framebuffer losslessly as float32 RGB triples,
// compressed with the given codec.
func WriteRadiance(w io.Writer, fb *Framebuffer, codec Compressor) error {
	header := radianceHeader{
		Magic:  radianceMagic,
		Width:  uint32(fb.Width),
		Height: uint32(fb.Height),
		Codec:  codec.ID(),
	}
	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return fmt.Errorf("failed to write radiance header: %w", err)
	}

	cw, err := codec.NewWriter(w)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(cw)
	var buf [12]byte
	for _, p := range fb.Pixels {
		binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(float32(p.X)))
		binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(float32(p.Y)))
		binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(float32(p.Z)))
		if _, err := bw.Write(buf[:]); err != nil {
			cw.Close()
			return fmt.Errorf("failed to write radiance data: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		cw.Close()
		return fmt.Errorf("failed to write radiance data: %w", err)
	}
	if err := cw.Close(); err != nil {
		return fmt.Errorf("%s close: %w", codec.Name(), err)
	}
	return nil
}

// ReadRadiance loads a dump written by WriteRadiance
func ReadRadiance(r io.Reader) (*Framebuffer, error) {
	var header radianceHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRadianceHeader, err)
	}
	if header.Magic != radianceMagic {
		return nil, fmt.Errorf("%w: magic %q", ErrBadRadianceHeader, header.Magic[:])
	}
	if header.Width == 0 || header.Height == 0 || header.Width > maxRadianceDim || header.Height > maxRadianceDim {
		return nil, fmt.Errorf("%w: size %dx%d", ErrBadRadianceHeader, header.Width, header.Height)
	}
	codec, ok := compressorByID(header.Codec)
	if !ok {
		return nil, fmt.Errorf("%w: codec %d", ErrBadRadianceHeader, header.Codec)
	}

	cr, err := codec.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer cr.Close()

	fb := NewFramebuffer(int(header.Width), int(header.Height))
	br := bufio.NewReader(cr)
	var buf [12]byte
	for i := range fb.Pixels {
		if _, err := io.ReadFull(br, buf[:]); err != nil {
			return nil, fmt.Errorf("failed to read radiance data at pixel %d: %w", i, err)
		}
		fb.Pixels[i] = core.NewVec3(
			float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[0:]))),
			float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[4:]))),
			float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[8:]))),
		)
	}
	return fb, nil
}
