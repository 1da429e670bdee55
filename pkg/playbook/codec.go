package playbook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	apperrors "github.com/duynguyendang/llm-playbook/pkg/common/errors"
)

// Encode writes d as two-space indented JSON followed by a newline.
// HTML characters are left unescaped; body fields are already sanitized.
func Encode(w io.Writer, d *Dataset) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(d)
}

// Marshal returns the Encode form of d.
func Marshal(d *Dataset) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses and validates a dataset artifact. Any failure is reported
// as ErrInvalidArtifact so callers refuse to use partial data.
func Decode(r io.Reader) (*Dataset, error) {
	var d Dataset
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidArtifact, err)
	}
	if err := Validate(&d); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidArtifact, err)
	}
	return &d, nil
}
