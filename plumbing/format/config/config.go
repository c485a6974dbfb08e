package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Option is a single "key = value" pair inside a section or subsection.
type Option struct {
	Key   string
	Value string
}

// Subsection is a named subsection (e.g. remote "origin") holding options.
type Subsection struct {
	Name    string
	Options []*Option
}

func (s *Subsection) option(key string) (*Option, bool) {
	for _, o := range s.Options {
		if strings.EqualFold(o.Key, key) {
			return o, true
		}
	}
	return nil, false
}

// Section is a top-level config section (e.g. "core", "remote").
type Section struct {
	Name        string
	Options     []*Option
	Subsections []*Subsection
}

func (s *Section) option(key string) (*Option, bool) {
	for _, o := range s.Options {
		if strings.EqualFold(o.Key, key) {
			return o, true
		}
	}
	return nil, false
}

func (s *Section) subsection(name string) *Subsection {
	for _, ss := range s.Subsections {
		if ss.Name == name {
			return ss
		}
	}
	ss := &Subsection{Name: name}
	s.Subsections = append(s.Subsections, ss)
	return ss
}

// Raw holds the config file exactly as parsed: ordered sections preserving
// duplicate keys, used as the storage for both typed fields and any
// settings the typed Config struct doesn't surface.
type Raw struct {
	Sections []*Section
}

// New returns an empty Raw config.
func New() *Raw { return &Raw{} }

// Section returns (creating if needed) the named top-level section.
func (r *Raw) Section(name string) *Section {
	for _, s := range r.Sections {
		if strings.EqualFold(s.Name, name) {
			return s
		}
	}
	s := &Section{Name: name}
	r.Sections = append(r.Sections, s)
	return s
}

// AddOption appends key=value under section[.subsection].
func (r *Raw) AddOption(section, subsection, key, value string) {
	s := r.Section(section)
	if subsection == "" {
		s.Options = append(s.Options, &Option{Key: key, Value: value})
		return
	}
	ss := s.subsection(subsection)
	ss.Options = append(ss.Options, &Option{Key: key, Value: value})
}

// Get returns the last value set for section.key (or section.subsection.key).
func (r *Raw) Get(section, subsection, key string) (string, bool) {
	var v string
	var found bool
	take := func(opts []*Option) {
		for _, o := range opts {
			if strings.EqualFold(o.Key, key) {
				v, found = o.Value, true
			}
		}
	}
	for _, s := range r.Sections {
		if !strings.EqualFold(s.Name, section) {
			continue
		}
		if subsection == "" {
			take(s.Options)
			continue
		}
		for _, ss := range s.Subsections {
			if ss.Name == subsection {
				take(ss.Options)
			}
		}
	}
	return v, found
}

// GetBool reads a boolean option, defaulting to def if unset or malformed.
func (r *Raw) GetBool(section, subsection, key string, def bool) bool {
	v, ok := r.Get(section, subsection, key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// SubsectionNames lists the subsection names under a section, sorted by name.
func (r *Raw) SubsectionNames(section string) []string {
	s := r.Section(section)
	names := make([]string, 0, len(s.Subsections))
	for _, ss := range s.Subsections {
		names = append(names, ss.Name)
	}
	sort.Strings(names)
	return names
}

// String renders Raw back into git-config INI text.
func (r *Raw) String() string {
	var b strings.Builder
	for _, s := range r.Sections {
		if len(s.Options) > 0 {
			fmt.Fprintf(&b, "[%s]\n", s.Name)
			for _, o := range s.Options {
				fmt.Fprintf(&b, "\t%s = %s\n", o.Key, o.Value)
			}
		}
		for _, ss := range s.Subsections {
			fmt.Fprintf(&b, "[%s %q]\n", s.Name, ss.Name)
			for _, o := range ss.Options {
				fmt.Fprintf(&b, "\t%s = %s\n", o.Key, o.Value)
			}
		}
	}
	return b.String()
}

// Config is the typed projection of the knobs spec.md §6 enumerates, kept
// alongside the Raw form so round-tripping never drops unknown settings.
type Config struct {
	Core struct {
		Bare              bool
		FileMode          bool
		Symlinks          bool
		IgnoreCase        bool
		AutoCRLF          string
		LogAllRefUpdates  bool
		BigFileThreshold  int64
		RepoFormatVersion RepositoryFormatVersion
	}
	Extensions struct {
		ObjectFormat ObjectFormat
	}
	User struct {
		Name  string
		Email string
	}
	Raw *Raw
}

// NewConfig returns a Config with git's documented defaults.
func NewConfig() *Config {
	c := &Config{Raw: New()}
	c.Core.FileMode = true
	c.Core.Symlinks = true
	c.Core.BigFileThreshold = 512 * 1024 * 1024
	c.Core.RepoFormatVersion = DefaultRepositoryFormatVersion
	c.Extensions.ObjectFormat = DefaultObjectFormat
	return c
}

// FromRaw projects a parsed Raw config into the typed Config.
func FromRaw(raw *Raw) *Config {
	c := NewConfig()
	c.Raw = raw

	c.Core.Bare = raw.GetBool("core", "", "bare", false)
	c.Core.FileMode = raw.GetBool("core", "", "filemode", true)
	c.Core.Symlinks = raw.GetBool("core", "", "symlinks", true)
	c.Core.IgnoreCase = raw.GetBool("core", "", "ignorecase", false)
	c.Core.LogAllRefUpdates = raw.GetBool("core", "", "logallrefupdates", true)

	if v, ok := raw.Get("core", "", "autocrlf"); ok {
		c.Core.AutoCRLF = v
	}
	if v, ok := raw.Get("core", "", "bigfilethreshold"); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Core.BigFileThreshold = n
		}
	}
	if v, ok := raw.Get("core", "", "repositoryformatversion"); ok {
		c.Core.RepoFormatVersion = RepositoryFormatVersion(v)
	}
	if v, ok := raw.Get("extensions", "", "objectformat"); ok {
		switch strings.ToLower(v) {
		case "sha256":
			c.Extensions.ObjectFormat = SHA256
		default:
			c.Extensions.ObjectFormat = SHA1
		}
	}
	if v, ok := raw.Get("user", "", "name"); ok {
		c.User.Name = v
	}
	if v, ok := raw.Get("user", "", "email"); ok {
		c.User.Email = v
	}

	return c
}

// RemoteURL returns remote.<name>.url, if configured.
func (c *Config) RemoteURL(name string) (string, bool) {
	return c.Raw.Get("remote", name, "url")
}

// RemoteFetch returns remote.<name>.fetch, if configured.
func (c *Config) RemoteFetch(name string) (string, bool) {
	return c.Raw.Get("remote", name, "fetch")
}

// BranchRemote returns branch.<name>.remote, if configured.
func (c *Config) BranchRemote(name string) (string, bool) {
	return c.Raw.Get("branch", name, "remote")
}
