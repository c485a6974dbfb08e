// Package filesystem is the on-disk storage backend: it ties dotgit's
// loose-object/pack/ref facade together with the object, index, and
// config formats into a single Repository a caller can read and write
// through without ever touching a billy.Filesystem directly.
package filesystem

import (
	"io"

	billy "github.com/go-git/go-billy/v5"

	"github.com/yusefsweeney/gitcore/hash"
	"github.com/yusefsweeney/gitcore/plumbing/format/config"
	"github.com/yusefsweeney/gitcore/storage/filesystem/dotgit"
)

// Repository is a git repository's storage, backed by a billy.Filesystem
// rooted at its gitdir. Zero values are not valid; use NewRepository.
type Repository struct {
	fs     billy.Filesystem
	dir    *dotgit.DotGit
	format hash.Format

	ObjectStorage
	ReferenceStorage
	IndexStorage
	ConfigStorage
}

// NewRepository opens (without requiring it to already exist) a
// Repository rooted at fs, detecting its object hash format from
// whatever config is already on disk.
func NewRepository(fs billy.Filesystem) (*Repository, error) {
	format := hash.DefaultFormat
	dir := dotgit.New(fs, format)

	if f, err := dir.Config(); err == nil {
		b, _ := io.ReadAll(f)
		f.Close()
		cfg, decErr := config.Decode(b)
		if decErr == nil && cfg.Extensions.ObjectFormat != "" {
			format = cfg.Extensions.ObjectFormat
			dir = dotgit.New(fs, format)
		}
	}

	r := &Repository{
		fs:     fs,
		dir:    dir,
		format: format,
	}
	r.ObjectStorage = ObjectStorage{dir: dir, format: format}
	r.ReferenceStorage = ReferenceStorage{dir: dir}
	r.IndexStorage = IndexStorage{dir: dir, format: format}
	r.ConfigStorage = ConfigStorage{dir: dir}
	return r, nil
}

// Init creates a fresh repository's directory skeleton and a default
// config matching the requested hash format.
func (r *Repository) Init(format hash.Format) error {
	if err := r.dir.Initialize(); err != nil {
		return err
	}

	cfg := config.NewConfig()
	cfg.Core.RepoFormatVersion = config.Version0
	if format != "" && format != hash.SHA1 {
		cfg.Extensions.ObjectFormat = format
		cfg.Core.RepoFormatVersion = config.Version1
	}
	return r.SetConfig(cfg)
}

// Format returns the hash format this repository addresses objects with.
func (r *Repository) Format() hash.Format { return r.format }

// Filesystem returns the underlying filesystem.
func (r *Repository) Filesystem() billy.Filesystem { return r.fs }
