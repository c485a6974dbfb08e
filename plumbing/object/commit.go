package object

import (
	"bytes"
	"fmt"

	"github.com/yusefsweeney/gitcore/plumbing"
)

// Commit is the decoded form of a commit object.
type Commit struct {
	Tree      plumbing.OID
	Parents   []plumbing.OID
	Author    Signature
	Committer Signature
	GPGSig    string
	Message   string
}

// DecodeCommit parses a commit object's canonical payload: a run of
// "key value" header lines, a blank line, then the free-form message.
func DecodeCommit(payload []byte) (*Commit, error) {
	c := &Commit{}

	header, message, ok := bytesCut(payload, []byte("\n\n"))
	if !ok {
		header, message = payload, nil
	}
	c.Message = string(message)

	lines := bytes.Split(header, []byte("\n"))
	var gpgLines [][]byte
	inSig := false

	for _, line := range lines {
		if inSig {
			if bytes.HasPrefix(line, []byte(" ")) {
				gpgLines = append(gpgLines, line[1:])
				continue
			}
			inSig = false
			c.GPGSig = string(bytes.Join(gpgLines, []byte("\n")))
		}

		key, val, ok := bytesCut(line, []byte(" "))
		if !ok {
			continue
		}

		switch string(key) {
		case "tree":
			oid, err := plumbing.FromHex(string(val))
			if err != nil {
				return nil, err
			}
			c.Tree = oid
		case "parent":
			oid, err := plumbing.FromHex(string(val))
			if err != nil {
				return nil, err
			}
			c.Parents = append(c.Parents, oid)
		case "author":
			c.Author.Decode(val)
		case "committer":
			c.Committer.Decode(val)
		case "gpgsig":
			inSig = true
			gpgLines = [][]byte{val}
		}
	}
	if inSig {
		c.GPGSig = string(bytes.Join(gpgLines, []byte("\n")))
	}

	return c, nil
}

func bytesCut(s, sep []byte) (before, after []byte, found bool) {
	if i := bytes.Index(s, sep); i >= 0 {
		return s[:i], s[i+len(sep):], true
	}
	return s, nil, false
}

// Encode serializes a commit back to its canonical payload.
func (c *Commit) Encode() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tree %s\n", c.Tree.String())
	for _, p := range c.Parents {
		fmt.Fprintf(&buf, "parent %s\n", p.String())
	}
	buf.WriteString("author ")
	c.Author.Encode(&buf)
	buf.WriteByte('\n')
	buf.WriteString("committer ")
	c.Committer.Encode(&buf)
	buf.WriteByte('\n')

	if c.GPGSig != "" {
		buf.WriteString("gpgsig ")
		lines := bytes.Split([]byte(c.GPGSig), []byte("\n"))
		for i, l := range lines {
			if i > 0 {
				buf.WriteString(" ")
			}
			buf.Write(l)
			buf.WriteByte('\n')
		}
	}

	buf.WriteByte('\n')
	buf.WriteString(c.Message)
	return buf.Bytes()
}
