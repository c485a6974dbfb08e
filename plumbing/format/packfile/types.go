// Package packfile reads the packfile (.pack) wire format: a header, a
// sequence of zlib-compressed object entries (some stored as deltas
// against an earlier object in the same pack), and a trailing checksum.
package packfile

import "github.com/yusefsweeney/gitcore/plumbing"

// objType is the on-disk object type tag used inside a packfile entry
// header — a superset of plumbing.ObjectType that also covers the two
// delta encodings, which never escape this package once resolved.
type objType int8

const (
	invalidType objType = 0
	commitType  objType = 1
	treeType    objType = 2
	blobType    objType = 3
	tagType     objType = 4
	// 5 is reserved by the format.
	ofsDeltaType objType = 6
	refDeltaType objType = 7
)

func (t objType) isDelta() bool {
	return t == ofsDeltaType || t == refDeltaType
}

func (t objType) toObjectType() (plumbing.ObjectType, bool) {
	switch t {
	case commitType:
		return plumbing.CommitObject, true
	case treeType:
		return plumbing.TreeObject, true
	case blobType:
		return plumbing.BlobObject, true
	case tagType:
		return plumbing.TagObject, true
	default:
		return plumbing.InvalidObject, false
	}
}

func fromObjectType(t plumbing.ObjectType) objType {
	switch t {
	case plumbing.CommitObject:
		return commitType
	case plumbing.TreeObject:
		return treeType
	case plumbing.BlobObject:
		return blobType
	case plumbing.TagObject:
		return tagType
	default:
		return invalidType
	}
}
