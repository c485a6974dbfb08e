// Package dotgit is the on-disk facade for a repository's <gitdir>:
// loose objects, pack directories, and the two places references live
// (loose files under refs/, and the packed-refs shadow file).
package dotgit

import (
	"fmt"
	"io"
	"os"
	"strings"

	billy "github.com/go-git/go-billy/v5"

	"github.com/yusefsweeney/gitcore/hash"
	"github.com/yusefsweeney/gitcore/plumbing"
)

const (
	objectsPath = "objects"
	packPath    = "pack"

	packPrefix = "pack-"
	packExt    = ".pack"
	idxExt     = ".idx"
	midxName   = "multi-pack-index"

	configPath     = "config"
	packedRefsPath = "packed-refs"
	indexPath      = "index"
)

var (
	// ErrIdxNotFound is returned when a pack's .idx counterpart is missing.
	ErrIdxNotFound = fmt.Errorf("dotgit: idx file not found")
	// ErrPackfileNotFound is returned when a named pack doesn't exist.
	ErrPackfileNotFound = fmt.Errorf("dotgit: packfile not found")
)

// DotGit wraps a billy.Filesystem rooted at a repository's git directory
// (the ".git" directory itself, or the working tree root for a bare repo).
type DotGit struct {
	fs     billy.Filesystem
	format hash.Format
}

// New returns a DotGit rooted at fs, addressing objects in the given hash format.
func New(fs billy.Filesystem, format hash.Format) *DotGit {
	return &DotGit{fs: fs, format: format}
}

// Initialize creates the directory skeleton a fresh repository needs:
// objects/, objects/pack/, refs/heads/, refs/tags/.
func (d *DotGit) Initialize() error {
	for _, dir := range []string{
		d.fs.Join(objectsPath, "info"),
		d.packDir(),
		d.fs.Join(refsPath, "heads"),
		d.fs.Join(refsPath, "tags"),
	} {
		if err := d.fs.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// Index opens the staging-area file for reading.
func (d *DotGit) Index() (billy.File, error) {
	return d.fs.Open(indexPath)
}

// IndexWriter truncates (or creates) the staging-area file for writing.
func (d *DotGit) IndexWriter() (billy.File, error) {
	return d.fs.Create(indexPath)
}

// Config opens the config file for reading.
func (d *DotGit) Config() (billy.File, error) {
	return d.fs.Open(configPath)
}

// ConfigWriter truncates (or creates) the config file for writing.
func (d *DotGit) ConfigWriter() (billy.File, error) {
	return d.fs.Create(configPath)
}

func (d *DotGit) oidLen() int {
	if d.format == hash.SHA256 {
		return 64
	}
	return 40
}

func (d *DotGit) looseObjectPath(oid plumbing.OID) string {
	h := oid.String()
	return d.fs.Join(objectsPath, h[:2], h[2:])
}

// HasObject reports whether a loose object for oid exists.
func (d *DotGit) HasObject(oid plumbing.OID) bool {
	_, err := d.fs.Stat(d.looseObjectPath(oid))
	return err == nil
}

// Object opens the loose object file for oid.
func (d *DotGit) Object(oid plumbing.OID) (billy.File, error) {
	return d.fs.Open(d.looseObjectPath(oid))
}

// NewObject creates a new loose object file, writing through a temporary
// file first and renaming into place so a reader never observes a
// partially-written object — the same shape the teacher's pack writer
// uses for the analogous packfile-then-rename sequence.
func (d *DotGit) NewObject(oid plumbing.OID) (io.WriteCloser, error) {
	path := d.looseObjectPath(oid)
	if _, err := d.fs.Stat(path); err == nil {
		return nil, nil // already present; caller should treat as a no-op write
	}

	dir := d.fs.Join(objectsPath, oid.String()[:2])
	if err := d.fs.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	tmp, err := d.fs.TempFile(dir, "obj-tmp-")
	if err != nil {
		return nil, err
	}
	return &renameOnClose{File: tmp, fs: d.fs, finalPath: path}, nil
}

type renameOnClose struct {
	billy.File
	fs        billy.Filesystem
	finalPath string
}

func (r *renameOnClose) Close() error {
	if err := r.File.Close(); err != nil {
		return err
	}
	return r.fs.Rename(r.File.Name(), r.finalPath)
}

// Objects lists every loose object's OID under objects/.
func (d *DotGit) Objects() ([]plumbing.OID, error) {
	top, err := d.fs.ReadDir(objectsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var oids []plumbing.OID
	for _, fi := range top {
		if !fi.IsDir() || len(fi.Name()) != 2 || !isHex(fi.Name()) {
			continue
		}
		sub, err := d.fs.ReadDir(d.fs.Join(objectsPath, fi.Name()))
		if err != nil {
			return nil, err
		}
		for _, f := range sub {
			full := fi.Name() + f.Name()
			if len(full) != d.oidLen() || !isHex(full) {
				continue
			}
			oid, err := plumbing.FromHex(full)
			if err != nil {
				continue
			}
			oids = append(oids, oid)
		}
	}
	return oids, nil
}

func isHex(s string) bool {
	for _, b := range []byte(s) {
		switch {
		case b >= '0' && b <= '9', b >= 'a' && b <= 'f', b >= 'A' && b <= 'F':
		default:
			return false
		}
	}
	return true
}

func (d *DotGit) packDir() string { return d.fs.Join(objectsPath, packPath) }

// ObjectPacks lists the checksums of every pack under objects/pack/.
func (d *DotGit) ObjectPacks() ([]plumbing.OID, error) {
	files, err := d.fs.ReadDir(d.packDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var packs []plumbing.OID
	for _, f := range files {
		name := f.Name()
		if !strings.HasPrefix(name, packPrefix) || !strings.HasSuffix(name, packExt) {
			continue
		}
		hex := strings.TrimSuffix(strings.TrimPrefix(name, packPrefix), packExt)
		oid, err := plumbing.FromHex(hex)
		if err != nil {
			continue
		}
		packs = append(packs, oid)
	}
	return packs, nil
}

// ObjectPack opens the .pack file for the given checksum.
func (d *DotGit) ObjectPack(checksum plumbing.OID) (billy.File, error) {
	path := d.fs.Join(d.packDir(), packPrefix+checksum.String()+packExt)
	f, err := d.fs.Open(path)
	if os.IsNotExist(err) {
		return nil, ErrPackfileNotFound
	}
	return f, err
}

// ObjectPackIdx opens the .idx file for the given checksum.
func (d *DotGit) ObjectPackIdx(checksum plumbing.OID) (billy.File, error) {
	path := d.fs.Join(d.packDir(), packPrefix+checksum.String()+idxExt)
	f, err := d.fs.Open(path)
	if os.IsNotExist(err) {
		return nil, ErrIdxNotFound
	}
	return f, err
}

// MultiPackIndex opens the multi-pack-index file, if one exists.
func (d *DotGit) MultiPackIndex() (billy.File, bool, error) {
	f, err := d.fs.Open(d.fs.Join(d.packDir(), midxName))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return f, true, nil
}
