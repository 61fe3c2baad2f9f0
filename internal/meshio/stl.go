// Package meshio is the mesh file I/O boundary: a TriangleSource-style
// contract plus the one concrete format this repository reads and writes
// end to end, STL (ASCII and binary). Other formats named in the command
// surface (OBJ, OFF, AMF, 3MF, 3MJ) are documented but return
// slicerrors.UnsupportedFormatError — see Open.
package meshio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mandoline-go/mandoline/internal/progress"
	"github.com/mandoline-go/mandoline/internal/slicerrors"
)

// Facet is one raw triangle read from (or to be written to) a mesh file:
// three vertices and a facet normal, not yet deduplicated or
// canonicalized — that happens when it's fed into a mesh.Mesh.
type Facet struct {
	Normal   [3]float64
	Vertices [3][3]float64
}

// Model holds every facet read from a mesh file, in file order, and
// satisfies mesh.TriangleSource.
type Model struct {
	Facets []Facet
}

// EachTriangle implements mesh.TriangleSource.
func (m *Model) EachTriangle(fn func(v1, v2, v3, normal [3]float64)) error {
	for _, f := range m.Facets {
		fn(f.Vertices[0], f.Vertices[1], f.Vertices[2], f.Normal)
	}
	return nil
}

// Open reads the mesh file at path, dispatching on its extension. STL is
// the only format parsed end to end; every other recognized extension
// returns slicerrors.UnsupportedFormatError naming the format, and an
// unrecognized extension returns the same error with an empty format
// name.
func Open(path string, sink progress.Sink) (*Model, error) {
	if sink == nil {
		sink = progress.Discard
	}
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".stl":
		f, err := os.Open(path)
		if err != nil {
			return nil, &slicerrors.IoError{Path: path, Op: "open", Err: err}
		}
		defer f.Close()
		sink.Message("Loading model %q", path)
		return ReadSTL(f, sink)
	case ".obj", ".off", ".3mj", ".3mf", ".amf":
		return nil, &slicerrors.UnsupportedFormatError{File: path, Format: ext[1:]}
	default:
		return nil, &slicerrors.UnsupportedFormatError{File: path, Format: ""}
	}
}

// ReadSTL parses an STL stream, detecting ASCII vs. binary from the
// first 80 bytes the same way the format itself is distinguished: a
// binary file's 80-byte header happens to start with "solid " only by
// coincidence, so the real signal is whether the stream continues in
// ASCII facet syntax afterward. Here, as in the reference reader, an
// 80-byte header starting with "solid " (case-insensitively) and shorter
// than a full binary header's worth of committed facet data is treated
// as ASCII.
func ReadSTL(r io.Reader, sink progress.Sink) (*Model, error) {
	if sink == nil {
		sink = progress.Discard
	}
	br := bufio.NewReaderSize(r, 64*1024)
	header, err := br.Peek(6)
	if err != nil && err != io.EOF {
		return nil, &slicerrors.MeshParseError{Reason: fmt.Sprintf("reading header: %v", err)}
	}
	if len(header) >= 6 && strings.EqualFold(string(header[:6]), "solid ") {
		return readSTLASCII(br, sink)
	}
	return readSTLBinary(br, sink)
}

func readSTLASCII(br *bufio.Reader, sink progress.Sink) (*Model, error) {
	m := &Model{}
	// Consume the "solid <name>" line.
	if _, err := br.ReadString('\n'); err != nil && err != io.EOF {
		return nil, &slicerrors.MeshParseError{Reason: fmt.Sprintf("reading solid line: %v", err)}
	}
	counter := sink.Counter("parsing", 1)
	defer counter.Done()
	n := 0
	for {
		facet, done, err := readASCIIFacet(br)
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
		if facet != nil {
			m.Facets = append(m.Facets, *facet)
		}
		n++
		counter.Update(n)
	}
	return m, nil
}

func readASCIIWords(br *bufio.Reader) ([]string, bool, error) {
	line, err := br.ReadString('\n')
	if line == "" && err != nil {
		if err == io.EOF {
			return nil, true, nil
		}
		return nil, false, &slicerrors.MeshParseError{Reason: fmt.Sprintf("reading line: %v", err)}
	}
	words := strings.Fields(strings.ToLower(line))
	if len(words) > 0 && words[0] == "endsolid" {
		return nil, true, nil
	}
	return words, false, nil
}

func parseFloats(words []string, watch ...string) ([]float64, error) {
	for i, w := range watch {
		if i >= len(words) || words[i] != w {
			return nil, fmt.Errorf("expected %q", strings.Join(watch, " "))
		}
	}
	out := make([]float64, 0, len(words)-len(watch))
	for _, w := range words[len(watch):] {
		v, err := strconv.ParseFloat(w, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func readASCIIVertex(br *bufio.Reader) ([3]float64, bool, error) {
	words, done, err := readASCIIWords(br)
	if err != nil || done {
		return [3]float64{}, done, err
	}
	vals, err := parseFloats(words, "vertex")
	if err != nil || len(vals) < 3 {
		return [3]float64{}, false, &slicerrors.MeshParseError{Reason: "malformed vertex line"}
	}
	return [3]float64{vals[0], vals[1], vals[2]}, false, nil
}

// readASCIIFacet reads one "facet normal ... endfacet" block, retrying on
// malformed blocks the way the reference reader skips to the next facet.
// Returns done=true at "endsolid" or EOF.
func readASCIIFacet(br *bufio.Reader) (*Facet, bool, error) {
	for {
		words, done, err := readASCIIWords(br)
		if err != nil {
			return nil, false, err
		}
		if done {
			return nil, true, nil
		}
		if len(words) == 0 {
			continue
		}
		normVals, err := parseFloats(words, "facet", "normal")
		if err != nil || len(normVals) < 3 {
			continue
		}
		if words2, done2, err2 := readASCIIWords(br); err2 != nil {
			return nil, false, err2
		} else if done2 {
			return nil, true, nil
		} else if _, err3 := parseFloats(words2, "outer", "loop"); err3 != nil {
			continue
		}
		v1, done, err := readASCIIVertex(br)
		if err != nil || done {
			return nil, done, err
		}
		v2, done, err := readASCIIVertex(br)
		if err != nil || done {
			return nil, done, err
		}
		v3, done, err := readASCIIVertex(br)
		if err != nil || done {
			return nil, done, err
		}
		if words4, done4, err4 := readASCIIWords(br); err4 != nil {
			return nil, false, err4
		} else if done4 {
			return nil, true, nil
		} else if _, err5 := parseFloats(words4, "endloop"); err5 != nil {
			continue
		}
		if words5, done5, err5 := readASCIIWords(br); err5 != nil {
			return nil, false, err5
		} else if done5 {
			return nil, true, nil
		} else if _, err6 := parseFloats(words5, "endfacet"); err6 != nil {
			continue
		}
		if v1 == v2 || v2 == v3 || v3 == v1 {
			continue
		}
		return &Facet{
			Normal:   [3]float64{normVals[0], normVals[1], normVals[2]},
			Vertices: [3][3]float64{v1, v2, v3},
		}, false, nil
	}
}

func readSTLBinary(br *bufio.Reader, sink progress.Sink) (*Model, error) {
	header := make([]byte, 80)
	if _, err := io.ReadFull(br, header); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return &Model{}, nil
		}
		return nil, &slicerrors.MeshParseError{Reason: fmt.Sprintf("reading binary header: %v", err)}
	}
	var count uint32
	if err := binary.Read(br, binary.LittleEndian, &count); err != nil {
		return nil, &slicerrors.MeshParseError{Reason: fmt.Sprintf("reading facet count: %v", err)}
	}
	m := &Model{Facets: make([]Facet, 0, count)}
	counter := sink.Counter("parsing", int(count))
	defer counter.Done()

	var raw [12]float32
	var attr uint16
	for i := uint32(0); i < count; i++ {
		if err := binary.Read(br, binary.LittleEndian, &raw); err != nil {
			return nil, &slicerrors.MeshParseError{Reason: fmt.Sprintf("reading facet %d: %v", i, err)}
		}
		if err := binary.Read(br, binary.LittleEndian, &attr); err != nil {
			return nil, &slicerrors.MeshParseError{Reason: fmt.Sprintf("reading facet %d attribute: %v", i, err)}
		}
		facet := Facet{
			Normal: [3]float64{float64(raw[0]), float64(raw[1]), float64(raw[2])},
			Vertices: [3][3]float64{
				{float64(raw[3]), float64(raw[4]), float64(raw[5])},
				{float64(raw[6]), float64(raw[7]), float64(raw[8])},
				{float64(raw[9]), float64(raw[10]), float64(raw[11])},
			},
		}
		if facet.Vertices[0] != facet.Vertices[1] && facet.Vertices[1] != facet.Vertices[2] && facet.Vertices[2] != facet.Vertices[0] {
			m.Facets = append(m.Facets, facet)
		}
		counter.Update(int(i) + 1)
	}
	return m, nil
}

// WriteSTL writes facets as an STL stream, ASCII when binary is false.
func WriteSTL(w io.Writer, facets []Facet, binaryFmt bool) error {
	if binaryFmt {
		return writeSTLBinary(w, facets)
	}
	return writeSTLASCII(w, facets)
}

func writeSTLASCII(w io.Writer, facets []Facet) error {
	bw := bufio.NewWriter(w)
	fmt.Fprint(bw, "solid Model\n")
	for _, f := range facets {
		fmt.Fprintf(bw, "  facet normal %s\n    outer loop\n", fmtVec(f.Normal))
		for _, v := range f.Vertices {
			fmt.Fprintf(bw, "      vertex %s\n", fmtVec(v))
		}
		fmt.Fprint(bw, "    endloop\n  endfacet\n")
	}
	fmt.Fprint(bw, "endsolid Model\n")
	return bw.Flush()
}

func fmtVec(v [3]float64) string {
	return fmt.Sprintf("%s %s %s", floatFmt(v[0]), floatFmt(v[1]), floatFmt(v[2]))
}

// floatFmt matches the reference float_fmt: shortest round-trippable
// representation, falling back to a fixed width for non-finite values.
func floatFmt(x float64) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return "0"
	}
	return strconv.FormatFloat(x, 'g', -1, 64)
}

func writeSTLBinary(w io.Writer, facets []Facet) error {
	bw := bufio.NewWriter(w)
	var header [80]byte
	copy(header[:], "Binary STL Model")
	if _, err := bw.Write(header[:]); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(facets))); err != nil {
		return err
	}
	for _, f := range facets {
		var raw [12]float32
		for i := 0; i < 3; i++ {
			raw[i] = float32(f.Normal[i])
		}
		for v := 0; v < 3; v++ {
			for i := 0; i < 3; i++ {
				raw[3+v*3+i] = float32(f.Vertices[v][i])
			}
		}
		if err := binary.Write(bw, binary.LittleEndian, raw); err != nil {
			return err
		}
		if err := binary.Write(bw, binary.LittleEndian, uint16(0)); err != nil {
			return err
		}
	}
	return bw.Flush()
}
