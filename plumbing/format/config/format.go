// Package config decodes and encodes the git-config INI dialect used by
// <gitdir>/config, including the extensions.objectformat knob that
// selects SHA-1 vs SHA-256 for a repository.
package config

import "github.com/yusefsweeney/gitcore/hash"

// ObjectFormat mirrors hash.Format but keeps the config package free of a
// direct dependency cycle back into plumbing.
type ObjectFormat = hash.Format

const (
	SHA1                ObjectFormat = hash.SHA1
	SHA256               ObjectFormat = hash.SHA256
	DefaultObjectFormat               = hash.DefaultFormat
	UnsetObjectFormat    ObjectFormat = ""
)

// RepositoryFormatVersion is core.repositoryformatversion.
type RepositoryFormatVersion string

const (
	Version0                      RepositoryFormatVersion = "0"
	Version1                      RepositoryFormatVersion = "1"
	DefaultRepositoryFormatVersion                        = Version0
)
