// Package lsmlconfig loads the optional YAML defaults file shared by the
// lsmlfmt and lsmldb command-line front-ends, and adapts core-engine
// callback contracts (the parser's error logger, its section filter)
// into the host-side conventions those front-ends use.
package lsmlconfig

import (
	"bytes"
	"os"
	"strings"

	"gopkg.in/yaml.v2"
)

// Options holds CLI defaults that an optional --config YAML file
// supplies, overridable by explicit flags. Shape mirrors sqldef's
// GeneratorConfig: newline-separated list fields decoded from a single
// YAML block scalar, split into slices after decoding.
type Options struct {
	// TargetSections, if non-empty, restricts parsing to sections whose
	// name appears in this list; all others are skipped silently.
	TargetSections []string
	// SkipSections lists section names to skip even if TargetSections
	// would otherwise admit them.
	SkipSections []string
	// MaxSections caps the number of sections the parser will create;
	// zero means unlimited. See parser.Options.MaxSections.
	MaxSections int
	// Strict makes any logged parse error abort the parse, instead of
	// being recovered from and merely reported.
	Strict bool
}

// Load reads and strictly decodes the YAML file at path. An empty path
// returns a zero Options, matching database.ParseGeneratorConfig's
// "no --config flag" behavior in the teacher.
func Load(path string) (Options, error) {
	if path == "" {
		return Options{}, nil
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return Options{}, err
	}
	return parseFromBytes(buf)
}

// LoadString decodes opts from an in-memory YAML document, for tests and
// embedders that already have the config text. An empty string returns
// a zero Options.
func LoadString(yamlText string) (Options, error) {
	if yamlText == "" {
		return Options{}, nil
	}
	return parseFromBytes([]byte(yamlText))
}

func parseFromBytes(buf []byte) (Options, error) {
	var raw struct {
		TargetSections string `yaml:"target_sections"`
		SkipSections   string `yaml:"skip_sections"`
		MaxSections    int    `yaml:"max_sections"`
		Strict         bool   `yaml:"strict"`
	}

	dec := yaml.NewDecoder(bytes.NewReader(buf))
	dec.SetStrict(true)
	if err := dec.Decode(&raw); err != nil {
		return Options{}, err
	}

	var targetSections []string
	if raw.TargetSections != "" {
		targetSections = strings.Split(strings.Trim(raw.TargetSections, "\n"), "\n")
	}

	var skipSections []string
	if raw.SkipSections != "" {
		skipSections = strings.Split(strings.Trim(raw.SkipSections, "\n"), "\n")
	}

	return Options{
		TargetSections: targetSections,
		SkipSections:   skipSections,
		MaxSections:    raw.MaxSections,
		Strict:         raw.Strict,
	}, nil
}

// Merge overlays override onto base, with any non-zero override field
// taking precedence — the same precedence rule as
// database.MergeGeneratorConfig, used so CLI flags can override a
// loaded --config file without the caller having to hand-write the
// field-by-field logic at each call site.
func Merge(base, override Options) Options {
	result := base
	if override.TargetSections != nil {
		result.TargetSections = override.TargetSections
	}
	if override.SkipSections != nil {
		result.SkipSections = override.SkipSections
	}
	if override.MaxSections != 0 {
		result.MaxSections = override.MaxSections
	}
	if override.Strict {
		result.Strict = true
	}
	return result
}
