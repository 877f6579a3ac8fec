package parser

import (
	"errors"

	"github.com/shua5115/lsml/document"
	"github.com/shua5115/lsml/intern"
	"github.com/shua5115/lsml/internal/arena"
	"github.com/shua5115/lsml/lsreader"
)

// scanString decodes one string value terminated by endDelim (or, for
// every flavor, by a bare newline/end-of-input), returning its
// interned form. Bytes are first written into the arena's unallocated
// tail and only committed once the final length is known, so a
// duplicate can be discarded by rewinding the cursor instead of
// copying it a second time (spec.md section 4.5's temporary-string
// discard protocol).
func (p *parser) scanString(endDelim byte) (*intern.String, error) {
	p.skipInlineSpace()

	mark := p.doc.Arena().Cursor()
	tail := p.doc.Arena().Tail()
	n := 0
	write := func(b byte) error {
		if n >= len(tail) {
			return document.ErrOutOfMemory
		}
		tail[n] = b
		n++
		return nil
	}

	if (p.cur == '{' && p.next == '}') || (p.cur == '[' && p.next == ']') {
		if err := write(byte(p.cur)); err != nil {
			return nil, err
		}
		if err := write(byte(p.next)); err != nil {
			return nil, err
		}
		p.advance()
		p.advance()
	}

	var err error
	switch p.cur {
	case '"', '\'':
		err = p.scanQuoted(byte(p.cur), endDelim, write)
	case '`':
		err = p.scanEscaped(endDelim, write)
	default:
		err = p.scanUnquoted(endDelim, write, &n, tail)
	}
	if err != nil {
		return nil, err
	}

	if err := write(0); err != nil {
		return nil, err
	}
	committed, cerr := p.doc.Arena().Commit(n)
	if cerr != nil {
		return nil, cerr
	}
	s, _, ierr := p.doc.Strings().InternTakeOwnership(mark, committed)
	if ierr != nil {
		if errors.Is(ierr, arena.ErrOutOfMemory) {
			return nil, document.ErrOutOfMemory
		}
		return nil, ierr
	}
	return s, nil
}

// scanUnquoted copies bytes up to endDelim, a newline, a comment, or
// end-of-input, then trims trailing whitespace from what was written.
func (p *parser) scanUnquoted(endDelim byte, write func(byte) error, n *int, tail []byte) error {
	for {
		if p.cur == lsreader.EOF || p.cur == '\n' || p.cur == '#' || byte(p.cur) == endDelim {
			break
		}
		if err := write(byte(p.cur)); err != nil {
			return err
		}
		p.advance()
	}
	for *n > 0 && isASCIISpace(int(tail[*n-1])) {
		*n--
	}
	return nil
}

// scanQuoted copies bytes verbatim between a pair of quote characters.
// A missing closing quote before the newline logs MissingEndQuote; the
// string still carries whatever was read.
func (p *parser) scanQuoted(quote, endDelim byte, write func(byte) error) error {
	p.advance() // consume opening quote
	closed := false
	for {
		if p.cur == lsreader.EOF || p.cur == '\n' {
			break
		}
		if byte(p.cur) == quote {
			p.advance()
			closed = true
			break
		}
		if err := write(byte(p.cur)); err != nil {
			return err
		}
		p.advance()
	}
	if !closed {
		return p.logError(MissingEndQuote)
	}
	return p.skipTrailingAfterQuote(endDelim)
}

// scanEscaped copies bytes between a pair of backticks, decoding
// backslash escapes along the way. A missing closing backtick before
// the newline logs MissingEndQuote, matching the quoted flavor.
func (p *parser) scanEscaped(endDelim byte, write func(byte) error) error {
	p.advance() // consume opening backtick
	closed := false
	for {
		if p.cur == lsreader.EOF || p.cur == '\n' {
			break
		}
		if p.cur == '`' {
			p.advance()
			closed = true
			break
		}
		if p.cur == '\\' {
			if err := p.decodeEscape(write); err != nil {
				return err
			}
			continue
		}
		if err := write(byte(p.cur)); err != nil {
			return err
		}
		p.advance()
	}
	if !closed {
		return p.logError(MissingEndQuote)
	}
	return p.skipTrailingAfterQuote(endDelim)
}

// skipTrailingAfterQuote discards whitespace between a closing
// quote/backtick and the in-context end-delimiter (or newline, comment,
// end-of-input), flagging TextAfterEndQuote at most once if any of the
// discarded bytes were non-whitespace.
func (p *parser) skipTrailingAfterQuote(endDelim byte) error {
	logged := false
	for p.cur != lsreader.EOF && p.cur != '\n' && p.cur != '#' && byte(p.cur) != endDelim {
		if isASCIISpace(p.cur) {
			p.advance()
			continue
		}
		if !logged {
			if err := p.logError(TextAfterEndQuote); err != nil {
				return err
			}
			logged = true
		}
		p.advance()
	}
	return nil
}
