// Package modelfile builds Ollama Modelfile documents: the text files that
// derive a named model from a base model by attaching a system prompt,
// generation parameters, and a prompt template.
package modelfile

import (
	"fmt"
	"os"
	"strings"
)

// Param is a single PARAMETER line. Keys may repeat; Ollama accepts multiple
// stop parameters.
type Param struct {
	Key   string
	Value string
}

// File describes a derived model: the base reference, the persona system
// prompt, ordered generation parameters, and the prompt template.
type File struct {
	From     string
	System   string
	Params   []Param
	Template string
}

// Validate checks that the document can be rendered into a usable Modelfile.
func (f File) Validate() error {
	if f.From == "" {
		return fmt.Errorf("modelfile: base model reference is required")
	}

	for _, p := range f.Params {
		if p.Key == "" {
			return fmt.Errorf("modelfile: parameter key is required")
		}
	}

	return nil
}

// Render produces the Modelfile text. Output is deterministic: sections
// appear in a fixed order and parameters in declaration order, so the same
// File always renders to identical bytes.
func (f File) Render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "FROM %s\n", f.From)

	if f.System != "" {
		fmt.Fprintf(&b, "\nSYSTEM \"\"\"%s\"\"\"\n", f.System)
	}

	if len(f.Params) > 0 {
		b.WriteString("\n")

		for _, p := range f.Params {
			fmt.Fprintf(&b, "PARAMETER %s %s\n", p.Key, p.Value)
		}
	}

	if f.Template != "" {
		fmt.Fprintf(&b, "\nTEMPLATE \"\"\"%s\"\"\"\n", f.Template)
	}

	return b.String()
}

// Write renders the document to path, overwriting any existing file. The
// file is left on disk for inspection after the model is built.
func (f File) Write(path string) error {
	if err := f.Validate(); err != nil {
		return err
	}

	if err := os.WriteFile(path, []byte(f.Render()), 0o644); err != nil { //nolint:gosec // Modelfile is a plain config artifact, not a secret
		return fmt.Errorf("modelfile: write %s: %w", path, err)
	}

	return nil
}
