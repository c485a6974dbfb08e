package object

import (
	"bytes"
	"fmt"
	"strconv"
	"time"
)

// Signature identifies the author or committer of a commit or tag.
type Signature struct {
	Name  string
	Email string
	// When is the signature time; its location carries the tz offset.
	When time.Time
}

// Decode parses a "Name <email> unix-seconds tz-offset" signature line, the
// form found after "author "/"committer "/"tagger " in a commit or tag.
func (s *Signature) Decode(b []byte) {
	open := bytes.LastIndexByte(b, '<')
	close := bytes.LastIndexByte(b, '>')
	if open == -1 || close == -1 || close < open {
		s.Name = string(bytes.TrimSpace(b))
		return
	}

	s.Name = string(bytes.TrimSpace(b[:open]))
	s.Email = string(b[open+1 : close])

	fields := bytes.Fields(b[close+1:])
	if len(fields) == 0 {
		return
	}

	sec, err := strconv.ParseInt(string(fields[0]), 10, 64)
	if err != nil {
		return
	}

	var loc *time.Location
	if len(fields) > 1 {
		loc = parseTZ(string(fields[1]))
	}
	if loc == nil {
		loc = time.UTC
	}

	s.When = time.Unix(sec, 0).In(loc)
}

func parseTZ(tz string) *time.Location {
	if len(tz) != 5 || (tz[0] != '+' && tz[0] != '-') {
		return nil
	}
	hh, err1 := strconv.Atoi(tz[1:3])
	mm, err2 := strconv.Atoi(tz[3:5])
	if err1 != nil || err2 != nil {
		return nil
	}
	offset := hh*3600 + mm*60
	if tz[0] == '-' {
		offset = -offset
	}
	return time.FixedZone(tz, offset)
}

// Encode writes the signature in git's wire form.
func (s *Signature) Encode(w *bytes.Buffer) {
	fmt.Fprintf(w, "%s <%s> %d %s", s.Name, s.Email, s.When.Unix(), formatTZ(s.When))
}

func formatTZ(t time.Time) string {
	_, offset := t.Zone()
	sign := "+"
	if offset < 0 {
		sign = "-"
		offset = -offset
	}
	hh := offset / 3600
	mm := (offset % 3600) / 60
	return fmt.Sprintf("%s%02d%02d", sign, hh, mm)
}
