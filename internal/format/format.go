// Package format abstracts CLI output encoding so commands do not
// hardcode a serialization.
package format

import (
	"encoding/json"
	"io"
)

// Formatter writes one payload to a stream.
type Formatter interface {
	Write(w io.Writer, payload any) error
}

// JSONFormatter writes JSON, one payload per line. Indent switches to
// human-readable multi-line output.
type JSONFormatter struct {
	Indent bool
}

func (f JSONFormatter) Write(w io.Writer, payload any) error {
	enc := json.NewEncoder(w)
	if f.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(payload)
}
