package filesystem

import (
	"io"
	"os"

	"github.com/yusefsweeney/gitcore/hash"
	"github.com/yusefsweeney/gitcore/plumbing/format/index"
	"github.com/yusefsweeney/gitcore/storage/filesystem/dotgit"
)

// IndexStorage reads and writes the single staging-area file — the one
// piece of repository state this module treats as a mutable singleton,
// per spec.md's index semantics.
type IndexStorage struct {
	dir    *dotgit.DotGit
	format hash.Format
}

// Index reads the staging area, returning an empty v2 index if none has
// ever been written yet.
func (s *IndexStorage) Index() (*index.Index, error) {
	f, err := s.dir.Index()
	if err != nil {
		if os.IsNotExist(err) {
			return index.NewIndex(), nil
		}
		return nil, err
	}
	defer f.Close()

	b, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return index.Decode(b, s.format)
}

// SetIndex overwrites the staging area with idx.
func (s *IndexStorage) SetIndex(idx *index.Index) error {
	b, err := index.Encode(idx, s.format)
	if err != nil {
		return err
	}

	w, err := s.dir.IndexWriter()
	if err != nil {
		return err
	}
	defer w.Close()

	_, err = w.Write(b)
	return err
}
