package config

import (
	"bytes"
	"io"

	"github.com/go-git/gcfg/v2"
)

// Decoder reads git-config INI text into a Raw config, using gcfg's
// callback mode so subsections and duplicate keys (both of which git's
// dialect allows but gcfg's struct-tag mode does not model) are preserved
// verbatim instead of being collapsed.
type Decoder struct {
	r io.Reader
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// Decode parses the whole config stream into raw.
func (d *Decoder) Decode(raw *Raw) error {
	cb := func(section, subsection, key, value string, _ bool) error {
		switch {
		case subsection == "" && key == "":
			raw.Section(section)
		case subsection != "" && key == "":
			raw.Section(section).subsection(subsection)
		default:
			raw.AddOption(section, subsection, key, value)
		}
		return nil
	}
	return gcfg.FatalOnly(gcfg.ReadWithCallback(d.r, cb))
}

// Decode parses bytes of a git config file into a typed Config.
func Decode(b []byte) (*Config, error) {
	raw := New()
	if err := NewDecoder(bytes.NewReader(b)).Decode(raw); err != nil {
		return nil, err
	}
	return FromRaw(raw), nil
}
