package lsmlconfig

import (
	"github.com/shua5115/lsml/document"
	"github.com/shua5115/lsml/parser"
)

// SectionFilter builds a parser.SectionFilter from opts's
// TargetSections/SkipSections lists. A nil return (both lists empty)
// means "no filtering", so callers can pass it straight through to
// parser.Options.Filter without a nil check.
func (opts Options) SectionFilter() parser.SectionFilter {
	if len(opts.TargetSections) == 0 && len(opts.SkipSections) == 0 {
		return nil
	}

	target := make(map[string]bool, len(opts.TargetSections))
	for _, name := range opts.TargetSections {
		target[name] = true
	}
	skip := make(map[string]bool, len(opts.SkipSections))
	for _, name := range opts.SkipSections {
		skip[name] = true
	}

	return func(name []byte, _ document.SectionType) bool {
		if skip[string(name)] {
			return false
		}
		if len(target) > 0 && !target[string(name)] {
			return false
		}
		return true
	}
}
