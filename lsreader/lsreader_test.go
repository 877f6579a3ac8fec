package lsreader

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromBytesYieldsEveryByteThenEOF(t *testing.T) {
	rd := FromBytes([]byte("ab"))
	assert.Equal(t, int('a'), rd.Next())
	assert.Equal(t, int('b'), rd.Next())
	assert.Equal(t, EOF, rd.Next())
	assert.Equal(t, EOF, rd.Next(), "reading past EOF must keep returning EOF")
}

func TestFromBytesEmpty(t *testing.T) {
	rd := FromBytes(nil)
	assert.Equal(t, EOF, rd.Next())
}

func TestFromReaderRefillsAcrossChunks(t *testing.T) {
	// force refills smaller than the input by using a reader that only
	// ever serves a handful of bytes per Read call.
	rd := FromReader(&slowReader{data: []byte("hello")})
	var got []byte
	for {
		c := rd.Next()
		if c == EOF {
			break
		}
		got = append(got, byte(c))
	}
	assert.Equal(t, "hello", string(got))
}

func TestFromReaderSurfacesNonEOFError(t *testing.T) {
	boom := errors.New("boom")
	rd := FromReader(&errReader{err: boom})
	assert.Equal(t, EOF, rd.Next())
	assert.ErrorIs(t, rd.Err(), boom)
}

func TestFromReaderEOFIsNotReportedAsErr(t *testing.T) {
	rd := FromReader(bytes.NewReader([]byte("x")))
	assert.Equal(t, int('x'), rd.Next())
	assert.Equal(t, EOF, rd.Next())
	assert.NoError(t, rd.Err())
}

// slowReader serves one byte per Read call to exercise the refill path.
type slowReader struct {
	data []byte
	pos  int
}

func (r *slowReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:r.pos+1])
	r.pos += n
	return n, nil
}

type errReader struct{ err error }

func (r *errReader) Read(p []byte) (int, error) { return 0, r.err }
