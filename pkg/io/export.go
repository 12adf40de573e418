package io

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/cyclefortytwo/iron-cuckatoo/pkg/cycle"
	"github.com/cyclefortytwo/iron-cuckatoo/pkg/graph"
)

// Report is the serialized outcome of one search.
type Report struct {
	Source    string           `json:"source,omitempty"`
	RunID     string           `json:"run_id,omitempty"`
	GraphHash string           `json:"graph_hash,omitempty"`
	Length    int              `json:"length"`
	Nodes     int              `json:"nodes"`
	Edges     int              `json:"edges"`
	Solutions []cycle.Solution `json:"solutions"`
	Stats     cycle.Stats      `json:"stats"`
}

// WriteWords encodes words as little-endian uint32 values.
func WriteWords(w io.Writer, words []uint32) error {
	buf := make([]byte, 4*len(words))
	for i, v := range words {
		binary.LittleEndian.PutUint32(buf[i*4:], v)
	}
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// WriteEdgesJSON writes the edges of g as a JSON edge list readable by
// ReadEdgesJSON.
func WriteEdgesJSON(w io.Writer, g *graph.Graph) error {
	list := edgeList{Edges: make([]graph.Edge, 0, g.EdgeCount())}
	for e := range g.Edges() {
		list.Edges = append(list.Edges, e)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(list); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteReport encodes a report as indented JSON.
func WriteReport(w io.Writer, r Report) error {
	if r.Solutions == nil {
		r.Solutions = []cycle.Solution{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteReports encodes several reports as one indented JSON array.
func WriteReports(w io.Writer, rs []Report) error {
	out := make([]Report, len(rs))
	for i, r := range rs {
		if r.Solutions == nil {
			r.Solutions = []cycle.Solution{}
		}
		out[i] = r
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportReport writes a report to a JSON file at path.
func ExportReport(r Report, path string) error {
	return exportFile(path, func(w io.Writer) error { return WriteReport(w, r) })
}

// ExportReports writes a JSON array of reports to path.
func ExportReports(rs []Report, path string) error {
	return exportFile(path, func(w io.Writer) error { return WriteReports(w, rs) })
}

func exportFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
