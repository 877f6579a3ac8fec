// Package lsmldb treats specially-named LSML table sections as database
// connection descriptors and array sections as SQL statement lists,
// giving the core document/value packages a real domain-level consumer:
// dialing the databases an LSML document describes. It never mutates
// the document it reads.
package lsmldb

import (
	"fmt"
	"strings"

	"github.com/shua5115/lsml/document"
	"github.com/shua5115/lsml/value"
)

// ConnSpecPrefix is the table-section name prefix that marks a section
// as a connection descriptor rather than ordinary configuration data.
const ConnSpecPrefix = "db."

// ConnSpec is one connection descriptor, read from a "db.*" table
// section's recognized keys.
type ConnSpec struct {
	// Name is the section name with ConnSpecPrefix stripped, e.g.
	// "primary" for a "{db.primary}" section.
	Name string

	Type     string // "mysql", "postgres", "mssql", or "sqlite3"
	Host     string
	Port     uint16
	User     string
	Password string
	DBName   string
	Socket   string
	SSLMode  string
}

func tableString(doc *document.Document, sec *document.Section, key string) string {
	v, err := doc.TableGet(sec, []byte(key))
	if err != nil {
		return ""
	}
	return v.String()
}

// Connections scans every table section of doc whose name starts with
// ConnSpecPrefix and parses it into a ConnSpec, in document section
// iteration order (spec.md section 4.7's IterateSections, unspecified
// bucket-walk order).
func Connections(doc *document.Document) ([]ConnSpec, error) {
	var specs []ConnSpec
	var firstErr error
	doc.IterateSections(func(sec *document.Section) bool {
		name := sec.Name().String()
		if !strings.HasPrefix(name, ConnSpecPrefix) {
			return true
		}
		if sec.Type() != document.Table {
			return true
		}

		spec := ConnSpec{
			Name:     strings.TrimPrefix(name, ConnSpecPrefix),
			Type:     tableString(doc, sec, "type"),
			Host:     tableString(doc, sec, "host"),
			User:     tableString(doc, sec, "user"),
			Password: tableString(doc, sec, "password"),
			DBName:   tableString(doc, sec, "dbname"),
			Socket:   tableString(doc, sec, "socket"),
			SSLMode:  tableString(doc, sec, "sslmode"),
		}

		if portStr, err := doc.TableGet(sec, []byte("port")); err == nil {
			port, status := value.ParseUint(portStr.Bytes(), 16)
			if status != value.Ok {
				firstErr = fmt.Errorf("lsmldb: section %q: invalid port %q: %s", name, portStr.Bytes(), status)
				return false
			}
			spec.Port = uint16(port)
		}

		specs = append(specs, spec)
		return true
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return specs, nil
}
