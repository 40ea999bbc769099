// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// OutputMode selects the serialization shape written for each PDF.
type OutputMode string

const (
	// ModeRaw writes {source_file, extracted_text} to <stem>.json.
	ModeRaw OutputMode = "raw"
	// ModeList writes the ordered [{type, text}] array to <stem>_structured.json.
	ModeList OutputMode = "list"
	// ModeKeyed writes the {h1, p1, h2, ...} object to <stem>_structured.json.
	ModeKeyed OutputMode = "keyed"
)

// Structured reports whether the mode runs the structure assembler.
func (m OutputMode) Structured() bool {
	return m == ModeList || m == ModeKeyed
}

// Backend identifies the PDF parsing library used for extraction.
type Backend string

const (
	BackendLedongthuc Backend = "ledongthuc"
	BackendTabula     Backend = "tabula"
)

// PipelineConfig holds settings for a batch run.
type PipelineConfig struct {
	// InputDir is the directory scanned for *.pdf files.
	InputDir string `json:"input_dir" yaml:"input_dir"`

	// OutputDir receives one JSON file per input PDF. Created if absent.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Mode selects raw, list, or keyed output.
	Mode OutputMode `json:"mode" yaml:"mode"`

	// Backend selects the PDF parsing library.
	Backend Backend `json:"backend" yaml:"backend"`

	// Validate runs a structural validation pass before extraction.
	Validate bool `json:"validate" yaml:"validate"`
}

// IndexConfig holds settings for the output index.
type IndexConfig struct {
	// OutputDir is the directory holding *_structured.json files to ingest.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// IndexDir holds the SQLite database and exports.
	IndexDir string `json:"index_dir" yaml:"index_dir"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
