// Package filemode defines the tree-entry mode values git recognises.
package filemode

import (
	"fmt"
	"os"
	"strconv"
)

// FileMode is the octal Unix-style mode stored in a tree entry.
type FileMode uint32

const (
	Empty      FileMode = 0
	Dir        FileMode = 0o040000
	Regular    FileMode = 0o100644
	Deprecated FileMode = 0o100664
	Executable FileMode = 0o100755
	Symlink    FileMode = 0o120000
	Submodule  FileMode = 0o160000
)

// New parses the ASCII octal mode used in tree object encoding.
func New(s string) (FileMode, error) {
	n, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return Empty, fmt.Errorf("filemode: invalid mode %q: %w", s, err)
	}
	return FileMode(n), nil
}

// String renders the mode the way a tree object encodes it: no leading
// zero for Dir (git writes "40000", not "040000").
func (m FileMode) String() string {
	if m == Dir {
		return "40000"
	}
	return fmt.Sprintf("%o", uint32(m))
}

// Bytes is the ASCII encoding used when serializing tree entries.
func (m FileMode) Bytes() []byte { return []byte(m.String()) }

// IsRegular reports whether m is a (possibly executable) plain file.
func (m FileMode) IsRegular() bool {
	return m == Regular || m == Executable || m == Deprecated
}

// IsMalformed reports a mode not representable on this filesystem/tree.
func (m FileMode) IsMalformed() bool {
	switch m {
	case Empty, Dir, Regular, Deprecated, Executable, Symlink, Submodule:
		return false
	default:
		return true
	}
}

// ToOSFileMode converts to the nearest os.FileMode for local filesystem use.
func (m FileMode) ToOSFileMode() (os.FileMode, error) {
	switch m {
	case Dir:
		return os.ModeDir | 0o755, nil
	case Regular:
		return 0o644, nil
	case Deprecated:
		return 0o644, nil
	case Executable:
		return 0o755, nil
	case Symlink:
		return os.ModeSymlink, nil
	case Submodule:
		return os.ModeDir, nil
	case Empty:
		return 0, nil
	default:
		return 0, fmt.Errorf("filemode: malformed mode %o", uint32(m))
	}
}

// NewFromOSFileMode converts a host os.FileMode into the closest git mode.
func NewFromOSFileMode(m os.FileMode) (FileMode, error) {
	if m.IsDir() {
		return Dir, nil
	}
	if m&os.ModeSymlink != 0 {
		return Symlink, nil
	}
	if !m.IsRegular() {
		return Empty, fmt.Errorf("filemode: unsupported os.FileMode %v", m)
	}
	if m&0o111 != 0 {
		return Executable, nil
	}
	return Regular, nil
}
