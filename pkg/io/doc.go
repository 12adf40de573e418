// Package io reads residual edge buffers and writes search reports.
//
// # Edge Files
//
// Two on-disk encodings of the residual edge list are supported:
//
//   - Binary: the raw trimmer output, a sequence of little-endian uint32
//     words laid out exactly as [graph.Build] expects. The byte length must
//     be a multiple of four.
//   - JSON: a human-editable edge list that is packed into the same layout:
//
//	{
//	  "edges": [
//	    {"u": 0, "v": 2, "nonce": 5},
//	    {"u": 3, "v": 4, "nonce": 9}
//	  ]
//	}
//
// [ImportEdges] picks the decoder from the format argument, or from the file
// extension when the format is "auto" or empty (".json" selects JSON,
// anything else binary).
//
// # Reports
//
// [WriteReport] and [ExportReport] serialize the solutions and counters of a
// search as indented JSON. Nonces are written as numbers; use
// [cycle.Solution.Hex] for the hexadecimal form printed by the CLI.
//
// [graph.Build]: github.com/cyclefortytwo/iron-cuckatoo/pkg/graph.Build
// [cycle.Solution.Hex]: github.com/cyclefortytwo/iron-cuckatoo/pkg/cycle.Solution.Hex
package io
