package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/k0kubun/pp/v3"

	"github.com/shua5115/lsml/document"
	"github.com/shua5115/lsml/intern"
	"github.com/shua5115/lsml/lsmlconfig"
	"github.com/shua5115/lsml/lsreader"
	"github.com/shua5115/lsml/parser"
	"github.com/shua5115/lsml/util"
)

// tableEntryDump is one key/value pair of a table section's --debug
// dump, ordered deterministically (see summarize) instead of following
// the document's unspecified bucket-walk order.
type tableEntryDump struct {
	Key   string
	Value string
}

var version string

type options struct {
	File        []string `long:"file" description:"Read an LSML document from the file, rather than stdin" value-name:"lsml_file" default:"-"`
	Config      string   `long:"config" description:"YAML file to specify: target_sections, skip_sections, max_sections, strict"`
	MaxSections int      `long:"max-sections" description:"Stop parsing once this many sections have been created" value-name:"n"`
	Debug       bool     `long:"debug" description:"Pretty-print the parsed document"`
	Strict      bool     `long:"strict" description:"Exit non-zero if any parse error was logged"`
	Help        bool     `long:"help" description:"Show this help"`
	Version     bool     `long:"version" description:"Show this version"`
}

func parseOptions(args []string) options {
	var opts options
	p := flags.NewParser(&opts, flags.None)
	p.Usage = "[options]"
	if _, err := p.ParseArgs(args); err != nil {
		log.Fatal(err)
	}

	if opts.Help {
		p.WriteHelp(os.Stdout)
		os.Exit(0)
	}
	if opts.Version {
		fmt.Println(version)
		os.Exit(0)
	}
	return opts
}

func openInput(files []string) (io.ReadCloser, error) {
	if len(files) == 0 || files[0] == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(files[0])
}

// sectionDump is an exported snapshot of a section, built for --debug
// pretty-printing: the document's own fields are unexported, so this is
// what pp.Println actually walks.
type sectionDump struct {
	Name string
	Type string
	Table     []tableEntryDump `json:",omitempty"`
	ArrayRows [][]string       `json:",omitempty"`
}

func summarize(doc *document.Document) []sectionDump {
	var dumps []sectionDump
	doc.IterateSections(func(sec *document.Section) bool {
		d := sectionDump{Name: sec.Name().String(), Type: sec.Type().String()}
		switch sec.Type() {
		case document.Table:
			entries := make(map[string]string, doc.TableLen(sec))
			doc.IterateTable(sec, func(key, value *intern.String) bool {
				entries[key.String()] = value.String()
				return true
			})
			// Table entries come back in the document's unspecified
			// bucket-walk order; sort them for reproducible --debug
			// output across runs.
			for k, v := range util.CanonicalMapIter(entries) {
				d.Table = append(d.Table, tableEntryDump{Key: k, Value: v})
			}
		case document.Array:
			var rows [][]string
			doc.IterateArray2D(sec, func(row, col int, value *intern.String) bool {
				for len(rows) <= row {
					rows = append(rows, nil)
				}
				rows[row] = append(rows[row], value.String())
				return true
			})
			d.ArrayRows = rows
		}
		dumps = append(dumps, d)
		return true
	})
	return dumps
}

func main() {
	util.InitSlog()
	opts := parseOptions(os.Args[1:])

	fileConfig, err := lsmlconfig.Load(opts.Config)
	if err != nil {
		log.Fatal(err)
	}
	cfg := lsmlconfig.Merge(fileConfig, lsmlconfig.Options{
		MaxSections: opts.MaxSections,
		Strict:      opts.Strict,
	})

	in, err := openInput(opts.File)
	if err != nil {
		log.Fatal(err)
	}
	defer in.Close()

	doc := document.New(make([]byte, 4<<20))
	r := lsreader.FromReader(in)

	errCount := 0
	logParseError := lsmlconfig.SlogErrorLogger(cfg.Strict)
	perr := parser.Parse(doc, r, parser.Options{
		MaxSections: cfg.MaxSections,
		Filter:      cfg.SectionFilter(),
		Logger: func(kind parser.ErrorKind, line int) bool {
			errCount++
			return logParseError(kind, line)
		},
	})
	if perr != nil {
		log.Fatal(perr)
	}

	if opts.Debug {
		pp.Println(summarize(doc))
	}

	fmt.Printf("%d section(s), %d parse error(s)\n", doc.SectionCount(), errCount)

	if cfg.Strict && errCount > 0 {
		os.Exit(1)
	}
}
