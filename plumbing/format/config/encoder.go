package config

import (
	"io"
	"strconv"
)

// Encoder writes a Raw config back out in git's INI dialect.
type Encoder struct {
	w io.Writer
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode writes raw's sections and subsections in order.
func (e *Encoder) Encode(raw *Raw) error {
	_, err := io.WriteString(e.w, raw.String())
	return err
}

// syncToRaw writes c's typed fields back into c.Raw, overwriting whatever
// core/extensions/user options were there before. Subsections (remote.*,
// branch.*) are left untouched since Config has no typed view over them.
func (c *Config) syncToRaw() {
	raw := New()
	for _, s := range c.Raw.Sections {
		if s.Name == "core" || s.Name == "extensions" || s.Name == "user" {
			continue
		}
		raw.Sections = append(raw.Sections, s)
	}

	raw.AddOption("core", "", "bare", boolString(c.Core.Bare))
	raw.AddOption("core", "", "filemode", boolString(c.Core.FileMode))
	raw.AddOption("core", "", "symlinks", boolString(c.Core.Symlinks))
	raw.AddOption("core", "", "ignorecase", boolString(c.Core.IgnoreCase))
	raw.AddOption("core", "", "logallrefupdates", boolString(c.Core.LogAllRefUpdates))
	if c.Core.AutoCRLF != "" {
		raw.AddOption("core", "", "autocrlf", c.Core.AutoCRLF)
	}
	raw.AddOption("core", "", "bigfilethreshold", strconv.FormatInt(c.Core.BigFileThreshold, 10))
	raw.AddOption("core", "", "repositoryformatversion", string(c.Core.RepoFormatVersion))

	if c.Extensions.ObjectFormat != "" && c.Extensions.ObjectFormat != SHA1 {
		raw.AddOption("extensions", "", "objectformat", string(c.Extensions.ObjectFormat))
	}
	if c.User.Name != "" {
		raw.AddOption("user", "", "name", c.User.Name)
	}
	if c.User.Email != "" {
		raw.AddOption("user", "", "email", c.User.Email)
	}

	c.Raw = raw
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// Encode projects c's typed fields into its Raw form and renders it.
func Encode(c *Config) []byte {
	c.syncToRaw()
	return []byte(c.Raw.String())
}
