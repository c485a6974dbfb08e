package object

// Blob is an opaque byte payload; git attaches no further structure to it.
type Blob struct {
	Bytes []byte
}
