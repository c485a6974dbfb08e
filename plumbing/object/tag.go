package object

import (
	"bytes"
	"fmt"

	"github.com/yusefsweeney/gitcore/plumbing"
)

// Tag is the decoded form of an annotated tag object.
type Tag struct {
	Object  plumbing.OID
	Type    plumbing.ObjectType
	Name    string
	Tagger  Signature
	GPGSig  string
	Message string
}

// DecodeTag parses an annotated tag object's canonical payload.
func DecodeTag(payload []byte) (*Tag, error) {
	t := &Tag{}

	header, message, ok := bytesCut(payload, []byte("\n\n"))
	if !ok {
		header, message = payload, nil
	}
	t.Message = string(message)

	for _, line := range bytes.Split(header, []byte("\n")) {
		key, val, ok := bytesCut(line, []byte(" "))
		if !ok {
			continue
		}
		switch string(key) {
		case "object":
			oid, err := plumbing.FromHex(string(val))
			if err != nil {
				return nil, err
			}
			t.Object = oid
		case "type":
			ot, err := plumbing.ParseObjectType(string(val))
			if err != nil {
				return nil, err
			}
			t.Type = ot
		case "tag":
			t.Name = string(val)
		case "tagger":
			t.Tagger.Decode(val)
		}
	}

	return t, nil
}

// Encode serializes a tag back to its canonical payload.
func (t *Tag) Encode() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "object %s\n", t.Object.String())
	fmt.Fprintf(&buf, "type %s\n", t.Type.String())
	fmt.Fprintf(&buf, "tag %s\n", t.Name)
	buf.WriteString("tagger ")
	t.Tagger.Encode(&buf)
	buf.WriteByte('\n')
	buf.WriteByte('\n')
	buf.WriteString(t.Message)
	return buf.Bytes()
}
