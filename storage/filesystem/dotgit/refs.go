package dotgit

import (
	"bufio"
	"errors"
	"io"
	"os"
	"sort"
	"strings"

	billy "github.com/go-git/go-billy/v5"

	"github.com/yusefsweeney/gitcore/plumbing"
)

// ErrReferenceHasChanged is returned by SetRef when old doesn't match the
// reference's current value — the compare-and-swap failed.
var ErrReferenceHasChanged = errors.New("dotgit: reference has changed")

const refsPath = "refs"

// Ref resolves name to a single, not-yet-dereferenced Reference, checking
// the loose ref file first and falling back to packed-refs.
func (d *DotGit) Ref(name plumbing.ReferenceName) (*plumbing.Reference, error) {
	if ref, err := d.readLooseRef(name); err == nil {
		return ref, nil
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	packed, err := d.readPackedRefs()
	if err != nil {
		return nil, err
	}
	for _, r := range packed {
		if r.Name() == name {
			return r, nil
		}
	}

	return nil, &plumbing.ErrNotFound{What: "reference", Key: name.String()}
}

// readLooseRef reads name's loose ref file. A concurrent writer can leave
// the file momentarily truncated or unreadable mid-rewrite, so a failed
// read is retried once before it's treated as the ref simply not existing.
func (d *DotGit) readLooseRef(name plumbing.ReferenceName) (*plumbing.Reference, error) {
	ref, err := d.readLooseRefOnce(name)
	if err == nil {
		return ref, nil
	}
	return d.readLooseRefOnce(name)
}

func (d *DotGit) readLooseRefOnce(name plumbing.ReferenceName) (*plumbing.Reference, error) {
	f, err := d.fs.Open(name.String())
	if err != nil {
		return nil, err
	}
	defer f.Close()

	b, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(b))) == 0 {
		return nil, os.ErrNotExist
	}
	return plumbing.NewReferenceFromStrings(name.String(), string(b)), nil
}

// Refs returns every reference this repository knows of: every loose ref
// under refs/ plus HEAD, and every packed ref not shadowed by a loose one.
func (d *DotGit) Refs() ([]*plumbing.Reference, error) {
	seen := make(map[plumbing.ReferenceName]bool)
	var out []*plumbing.Reference

	var walk func(dir string) error
	walk = func(dir string) error {
		entries, err := d.fs.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		for _, e := range entries {
			full := d.fs.Join(dir, e.Name())
			if e.IsDir() {
				if err := walk(full); err != nil {
					return err
				}
				continue
			}
			ref, err := d.readLooseRef(plumbing.ReferenceName(full))
			if err != nil {
				continue
			}
			seen[ref.Name()] = true
			out = append(out, ref)
		}
		return nil
	}
	if err := walk(refsPath); err != nil {
		return nil, err
	}

	if head, err := d.readLooseRef(plumbing.HEAD); err == nil {
		seen[plumbing.HEAD] = true
		out = append(out, head)
	}

	packed, err := d.readPackedRefs()
	if err != nil {
		return nil, err
	}
	for _, r := range packed {
		if !seen[r.Name()] {
			out = append(out, r)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}

// SetRef writes new as a loose ref file, first verifying old (if non-nil)
// still matches whatever is currently stored — loose or packed — so two
// writers racing on the same ref can't silently clobber each other.
func (d *DotGit) SetRef(newRef, old *plumbing.Reference) error {
	if old != nil {
		current, err := d.Ref(old.Name())
		if err != nil {
			return err
		}
		if current.Type() != old.Type() ||
			(current.Type() == plumbing.HashReference && !current.OID().Equal(old.OID())) ||
			(current.Type() == plumbing.SymbolicReference && current.Target() != old.Target()) {
			return ErrReferenceHasChanged
		}
	}

	name := newRef.Name().String()
	if dir := parentDir(name); dir != "" {
		if err := d.fs.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f, err := d.fs.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write([]byte(newRef.String() + "\n"))
	return err
}

// RemoveRef deletes a loose ref file and scrubs the name from packed-refs.
func (d *DotGit) RemoveRef(name plumbing.ReferenceName) error {
	err := d.fs.Remove(name.String())
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return d.rewritePackedRefsWithout(name)
}

func parentDir(path string) string {
	i := strings.LastIndexByte(path, '/')
	if i < 0 {
		return ""
	}
	return path[:i]
}

func (d *DotGit) readPackedRefs() ([]*plumbing.Reference, error) {
	f, err := d.fs.Open(packedRefsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()
	return parsePackedRefs(f)
}

func parsePackedRefs(r io.Reader) ([]*plumbing.Reference, error) {
	var refs []*plumbing.Reference
	var pending *plumbing.Reference

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "#"):
			continue
		case strings.HasPrefix(line, "^"):
			// a peeled tag annotation for the previous line; this module
			// doesn't resolve annotated tags through packed-refs peeling,
			// so it's recorded nowhere and simply not re-emitted on rewrite.
			continue
		default:
			parts := strings.SplitN(line, " ", 2)
			if len(parts) != 2 {
				continue
			}
			oid, err := plumbing.FromHex(parts[0])
			if err != nil {
				continue
			}
			pending = plumbing.NewHashReference(plumbing.ReferenceName(parts[1]), oid)
			refs = append(refs, pending)
		}
	}
	return refs, scanner.Err()
}

// rewritePackedRefsWithout removes name from packed-refs, if present.
func (d *DotGit) rewritePackedRefsWithout(name plumbing.ReferenceName) error {
	refs, err := d.readPackedRefs()
	if err != nil {
		return err
	}

	kept := refs[:0]
	found := false
	for _, r := range refs {
		if r.Name() == name {
			found = true
			continue
		}
		kept = append(kept, r)
	}
	if !found {
		return nil
	}

	return d.writePackedRefs(kept)
}

func (d *DotGit) writePackedRefs(refs []*plumbing.Reference) error {
	tmpDir := ""
	tmp, err := d.fs.TempFile(tmpDir, "packed-refs-tmp-")
	if err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString("# pack-refs with: peeled fully-peeled sorted\n")
	for _, r := range refs {
		if r.Type() != plumbing.HashReference {
			continue
		}
		b.WriteString(r.OID().String())
		b.WriteByte(' ')
		b.WriteString(r.Name().String())
		b.WriteByte('\n')
	}

	if _, err := tmp.Write([]byte(b.String())); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := d.fs.Rename(tmp.Name(), packedRefsPath); err != nil {
		if errors.Is(err, billy.ErrNotSupported) {
			return d.copyPackedRefs(tmp.Name())
		}
		return err
	}
	return nil
}

func (d *DotGit) copyPackedRefs(tmpName string) error {
	src, err := d.fs.Open(tmpName)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := d.fs.Create(packedRefsPath)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}
