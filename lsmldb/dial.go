package lsmldb

import (
	"database/sql"
	"fmt"
	"net/url"

	"github.com/go-sql-driver/mysql"
	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dial opens a *sql.DB for spec, building the driver-specific DSN the
// way the teacher's driver package does per database type.
func Dial(spec ConnSpec) (*sql.DB, error) {
	switch spec.Type {
	case "mysql":
		return sql.Open("mysql", mysqlDSN(spec))
	case "postgres":
		return sql.Open("postgres", postgresDSN(spec))
	case "mssql":
		return sql.Open("sqlserver", mssqlDSN(spec))
	case "sqlite3":
		return sql.Open("sqlite", sqlite3DSN(spec))
	default:
		return nil, fmt.Errorf("lsmldb: unrecognized connection type %q (want mysql, postgres, mssql, or sqlite3)", spec.Type)
	}
}

// mysqlDSN is adapted from driver/mysql.go's mysqlBuildDSN, generalized
// to carry the socket/sslmode fields a connection descriptor may supply.
func mysqlDSN(spec ConnSpec) string {
	c := mysql.NewConfig()
	c.User = spec.User
	c.Passwd = spec.Password
	c.DBName = spec.DBName
	if spec.Socket != "" {
		c.Net = "unix"
		c.Addr = spec.Socket
	} else {
		c.Net = "tcp"
		host := spec.Host
		if host == "" {
			host = "127.0.0.1"
		}
		port := spec.Port
		if port == 0 {
			port = 3306
		}
		c.Addr = fmt.Sprintf("%s:%d", host, port)
	}
	if spec.SSLMode != "" {
		c.TLSConfig = spec.SSLMode
	}
	return c.FormatDSN()
}

// postgresDSN is adapted from driver/postgres.go's postgresBuildDSN,
// generalized beyond the teacher's hardcoded localhost/no-password
// defaults to use the fields a connection descriptor actually supplies.
func postgresDSN(spec ConnSpec) string {
	host := spec.Host
	if host == "" {
		host = "127.0.0.1"
	}
	port := spec.Port
	if port == 0 {
		port = 5432
	}
	sslmode := spec.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", host, port),
		Path:   "/" + spec.DBName,
	}
	if spec.User != "" {
		if spec.Password != "" {
			u.User = url.UserPassword(spec.User, spec.Password)
		} else {
			u.User = url.User(spec.User)
		}
	}
	q := u.Query()
	q.Set("sslmode", sslmode)
	u.RawQuery = q.Encode()
	return u.String()
}

// mssqlDSN is adapted from database/mssql/database.go's connection
// assembly for github.com/denisenkom/go-mssqldb.
func mssqlDSN(spec ConnSpec) string {
	host := spec.Host
	if host == "" {
		host = "127.0.0.1"
	}
	port := spec.Port
	if port == 0 {
		port = 1433
	}

	u := url.URL{
		Scheme: "sqlserver",
		Host:   fmt.Sprintf("%s:%d", host, port),
	}
	if spec.User != "" {
		u.User = url.UserPassword(spec.User, spec.Password)
	}
	q := u.Query()
	if spec.DBName != "" {
		q.Set("database", spec.DBName)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// sqlite3DSN is adapted from database/sqlite3/sqlite3.go, which opens
// config.DbName directly as a file path; modernc.org/sqlite accepts the
// same bare-path DSN form.
func sqlite3DSN(spec ConnSpec) string {
	return spec.DBName
}
