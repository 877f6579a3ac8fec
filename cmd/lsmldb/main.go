package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"syscall"

	"github.com/jessevdk/go-flags"
	"golang.org/x/term"

	"github.com/shua5115/lsml/document"
	"github.com/shua5115/lsml/lsmlconfig"
	"github.com/shua5115/lsml/lsmldb"
	"github.com/shua5115/lsml/lsreader"
	"github.com/shua5115/lsml/parser"
	"github.com/shua5115/lsml/util"
)

var version string

type options struct {
	File           string `long:"file" description:"Read connection descriptors from the given LSML file, rather than stdin" value-name:"lsml_file" default:"-"`
	Config         string `long:"config" description:"YAML file to specify: target_sections, skip_sections, max_sections, strict"`
	PasswordPrompt bool   `long:"password-prompt" description:"Prompt for a password to use on any connection whose descriptor omits one"`
	CheckQueries   bool   `long:"check-queries" description:"Syntax-check the 'queries' array section against every Postgres connection"`
	Help           bool   `long:"help" description:"Show this help"`
	Version        bool   `long:"version" description:"Show this version"`
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

func openInput(file string) (*os.File, error) {
	if file == "" || file == "-" {
		return os.Stdin, nil
	}
	return os.Open(file)
}

func promptPassword() string {
	fmt.Print("Enter Password: ")
	pass, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		log.Fatal(err)
	}
	return string(pass)
}

func main() {
	util.InitSlog()
	opts := parseOptions(os.Args[1:])

	fileConfig, err := lsmlconfig.Load(opts.Config)
	if err != nil {
		log.Fatal(err)
	}

	in, err := openInput(opts.File)
	if err != nil {
		log.Fatal(err)
	}
	defer in.Close()

	doc := document.New(make([]byte, 4<<20))
	r := lsreader.FromReader(in)
	if err := parser.Parse(doc, r, parser.Options{
		MaxSections: fileConfig.MaxSections,
		Filter:      fileConfig.SectionFilter(),
		Logger:      lsmlconfig.SlogErrorLogger(fileConfig.Strict),
	}); err != nil {
		log.Fatal(err)
	}

	specs, err := lsmldb.Connections(doc)
	if err != nil {
		log.Fatal(err)
	}
	if len(specs) == 0 {
		fmt.Println("no db.* connection sections found")
		return
	}
	names := util.TransformSlice(specs, func(s lsmldb.ConnSpec) string { return s.Name })
	fmt.Printf("found %d connection(s): %s\n", len(names), strings.Join(names, ", "))

	querySec, qerr := doc.GetSection([]byte("queries"), nil)

	failures := 0
	for _, spec := range specs {
		if spec.Password == "" && opts.PasswordPrompt {
			spec.Password = promptPassword()
		}

		db, err := lsmldb.Dial(spec)
		if err != nil {
			fmt.Printf("-- %s: FAIL (dial: %s)\n", spec.Name, err)
			failures++
			continue
		}

		pingErr := db.Ping()
		db.Close()
		if pingErr != nil {
			fmt.Printf("-- %s: FAIL (ping: %s)\n", spec.Name, pingErr)
			failures++
			continue
		}
		fmt.Printf("-- %s: PASS\n", spec.Name)

		if opts.CheckQueries && qerr == nil {
			for _, qe := range lsmldb.CheckQueries(doc, querySec, spec) {
				fmt.Printf("   queries[%d]: %s\n", qe.Index, qe.Err)
				failures++
			}
		}
	}

	if failures > 0 {
		os.Exit(1)
	}
}
