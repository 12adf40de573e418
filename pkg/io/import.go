package io

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cyclefortytwo/iron-cuckatoo/pkg/errors"
	"github.com/cyclefortytwo/iron-cuckatoo/pkg/graph"
)

// Edge file formats accepted by ImportEdges.
const (
	FormatAuto   = "auto"
	FormatBinary = "bin"
	FormatJSON   = "json"
)

type edgeList struct {
	Edges []graph.Edge `json:"edges"`
}

// ReadWords decodes little-endian uint32 words from r until EOF.
// ReadWords does not close r.
func ReadWords(r io.Reader) ([]uint32, error) {
	data, err := io.ReadAll(bufio.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if len(data)%4 != 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat,
			"binary edge buffer is %d bytes, not a multiple of 4", len(data))
	}
	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return words, nil
}

// ReadEdgesJSON decodes a JSON edge list from r and packs it into a residual
// buffer.
func ReadEdgesJSON(r io.Reader) ([]uint32, error) {
	var list edgeList
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&list); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode edge list")
	}
	return graph.Encode(list.Edges), nil
}

// ImportEdges reads the edge file at path in the given format.
func ImportEdges(path, format string) ([]uint32, error) {
	if err := errors.ValidateFormat(format); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "edge file %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if DetectFormat(path, format) == FormatJSON {
		return ReadEdgesJSON(f)
	}
	return ReadWords(f)
}

// DetectFormat resolves "auto" (or empty) to a concrete format using the
// file extension.
func DetectFormat(path, format string) string {
	format = strings.ToLower(format)
	if format != "" && format != FormatAuto {
		return format
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatBinary
}
