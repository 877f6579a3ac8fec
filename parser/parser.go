// Package parser implements the single-pass, line-oriented LSML reader
// described in spec.md section 4.5: a two-character sliding window
// drives a small state machine that builds sections directly into a
// document.Document, recovering from most malformed input by logging
// and discarding rather than stopping.
package parser

import (
	"errors"

	"github.com/shua5115/lsml/document"
	"github.com/shua5115/lsml/lsreader"
)

// ErrorLogger receives a recoverable parse error's kind and the
// 1-based line number where it was detected. Returning true aborts the
// parse; Parse then returns document.ErrParseAborted.
type ErrorLogger func(kind ErrorKind, line int) bool

// SectionFilter is consulted with a candidate section's name and type
// before it is created. Returning false skips the section silently,
// the same as a section rejected for any other reason.
type SectionFilter func(name []byte, typ document.SectionType) bool

// Options configures a single Parse call.
type Options struct {
	// MaxSections stops the parse at the first section header met after
	// this many sections have been created: the entries of the last
	// created section are still read, and everything from that header
	// on is treated as end-of-input. Zero means unlimited.
	MaxSections int
	// Filter, if set, is consulted before every section is created.
	Filter SectionFilter
	// Logger receives every recoverable parse error. A nil Logger
	// means errors are recovered from without being reported anywhere.
	Logger ErrorLogger
}

// errAborted signals that opts.Logger asked the parse to stop; Parse
// translates it to document.ErrParseAborted at the boundary.
var errAborted = errors.New("parser: aborted by error logger")

type parser struct {
	doc  *document.Document
	r    *lsreader.Reader
	opts Options

	cur  int
	next int
	line int

	curSection     *document.Section
	sectionsParsed int
	// sectionSkipped is true once a header has been explicitly
	// skipped (empty name, duplicate name, or filtered out): entries
	// up to the next header are then silently ignored rather than
	// flagged TextOutsideSection, matching the distinct "no section
	// yet at all" case that still gets flagged.
	sectionSkipped bool
}

// Parse reads LSML-formatted text from r into doc. It returns nil on a
// clean end-of-input, document.ErrParseAborted if opts.Logger asked to
// stop, document.ErrOutOfMemory if doc's arena was exhausted, or
// whatever non-EOF error r produced.
func Parse(doc *document.Document, r *lsreader.Reader, opts Options) error {
	p := &parser{doc: doc, r: r, opts: opts, line: 1}
	p.cur = p.r.Next()
	p.next = p.r.Next()

	err := p.run()
	if err == errAborted {
		return document.ErrParseAborted
	}
	if err != nil {
		return err
	}
	return p.r.Err()
}

func (p *parser) advance() {
	if p.cur == '\n' {
		p.line++
	}
	p.cur = p.next
	p.next = p.r.Next()
}

func isASCIISpace(c int) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// skipSpace skips spaces, tabs, carriage returns, and newlines — the
// line discipline's column-0 skip between logical lines.
func (p *parser) skipSpace() {
	for p.cur == ' ' || p.cur == '\t' || p.cur == '\r' || p.cur == '\n' {
		p.advance()
	}
}

// skipInlineSpace skips spaces, tabs, and carriage returns, but not a
// newline: used to find a value's first non-whitespace byte without
// crossing into the next line.
func (p *parser) skipInlineSpace() {
	for p.cur == ' ' || p.cur == '\t' || p.cur == '\r' {
		p.advance()
	}
}

// skipLine discards up to and including the next newline. Every
// sub-parser leaves cur at the line's terminating newline (or
// end-of-input) without consuming it; skipLine is what actually
// advances past it to start the next line.
func (p *parser) skipLine() {
	for p.cur != lsreader.EOF && p.cur != '\n' {
		p.advance()
	}
	if p.cur == '\n' {
		p.advance()
	}
}

func (p *parser) logError(kind ErrorKind) error {
	if p.opts.Logger == nil {
		return nil
	}
	if p.opts.Logger(kind, p.line) {
		return errAborted
	}
	return nil
}

func (p *parser) run() error {
	for {
		p.skipSpace()
		if p.cur == lsreader.EOF {
			return nil
		}

		switch {
		case p.cur == '{' && p.next != '}':
			if p.opts.MaxSections > 0 && p.sectionsParsed >= p.opts.MaxSections {
				return nil
			}
			if err := p.parseSectionHeader(document.Table); err != nil {
				return err
			}
		case p.cur == '[' && p.next != ']':
			if p.opts.MaxSections > 0 && p.sectionsParsed >= p.opts.MaxSections {
				return nil
			}
			if err := p.parseSectionHeader(document.Array); err != nil {
				return err
			}
		case p.cur == '#':
			p.skipLine()
			continue
		default:
			if err := p.parseEntry(); err != nil {
				return err
			}
		}
		p.skipLine()
	}
}

// parseSectionHeader parses a {name} or [name] header already
// positioned at its opening bracket, creating the section unless the
// name is empty, filtered out, or a duplicate.
func (p *parser) parseSectionHeader(typ document.SectionType) error {
	delim := byte('}')
	if typ == document.Array {
		delim = ']'
	}
	p.advance() // consume opening '{' or '['

	name, serr := p.scanString(delim)
	if serr != nil {
		return serr
	}

	if p.cur != int(delim) {
		if err := p.logError(SectionHeaderUnclosed); err != nil {
			return err
		}
	} else {
		p.advance() // consume the closing delimiter
		if err := p.skipTrailerAfterHeader(); err != nil {
			return err
		}
	}

	if len(name.Bytes()) == 0 {
		if err := p.logError(SectionNameEmpty); err != nil {
			return err
		}
		p.curSection = nil
		p.sectionSkipped = true
		return nil
	}

	if p.opts.Filter != nil && !p.opts.Filter(name.Bytes(), typ) {
		p.curSection = nil
		p.sectionSkipped = true
		return nil
	}

	sec, err := p.doc.AddSection(typ, name.Bytes())
	if err != nil {
		if err == document.ErrSectionNameReused {
			if lerr := p.logError(SectionNameReused); lerr != nil {
				return lerr
			}
			p.curSection = nil
			p.sectionSkipped = true
			return nil
		}
		return err
	}
	p.curSection = sec
	p.sectionsParsed++
	p.sectionSkipped = false
	return nil
}

// skipTrailerAfterHeader discards anything after a header's closing
// delimiter up to the line's comment or newline, flagging
// TextAfterSectionHeader at most once if any of it was non-whitespace.
func (p *parser) skipTrailerAfterHeader() error {
	logged := false
	for p.cur != lsreader.EOF && p.cur != '\n' && p.cur != '#' {
		if isASCIISpace(p.cur) {
			p.advance()
			continue
		}
		if !logged {
			if err := p.logError(TextAfterSectionHeader); err != nil {
				return err
			}
			logged = true
		}
		p.advance()
	}
	return nil
}

// parseEntry dispatches a non-header, non-comment line to the table or
// array parser for the current section, or flags it as orphaned text
// if no section is active.
func (p *parser) parseEntry() error {
	if p.curSection == nil {
		if p.sectionSkipped {
			return nil
		}
		return p.logError(TextOutsideSection)
	}
	if p.curSection.Type() == document.Table {
		return p.parseTableEntry()
	}
	return p.parseArrayRow()
}

func (p *parser) parseTableEntry() error {
	key, err := p.scanString('=')
	if err != nil {
		return err
	}
	if p.cur != '=' {
		return p.logError(TableEntryMissingEquals)
	}
	p.advance() // consume '='

	if _, gerr := p.doc.TableGet(p.curSection, key.Bytes()); gerr == nil {
		return p.logError(TableKeyReused)
	}

	value, err := p.scanString('\n')
	if err != nil {
		return err
	}
	if addErr := p.doc.TableAdd(p.curSection, key.Bytes(), value.Bytes()); addErr != nil {
		if addErr == document.ErrTableKeyReused {
			return p.logError(TableKeyReused)
		}
		return addErr
	}
	return nil
}

func (p *parser) parseArrayRow() error {
	startNewRow := true
	for {
		value, err := p.scanString(',')
		if err != nil {
			return err
		}
		if err := p.doc.ArrayPush(p.curSection, value.Bytes(), startNewRow); err != nil {
			return err
		}
		startNewRow = false

		if p.cur != ',' {
			return nil
		}
		p.advance() // consume ','
		if p.cur == lsreader.EOF || p.cur == '\n' || p.cur == '#' {
			return nil // trailing comma: no extra empty element
		}
	}
}
