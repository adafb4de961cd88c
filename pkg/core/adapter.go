package core

import (
	"database/sql"
	"strconv"
)

// AdapterConfig holds configuration for connecting to a database.
type AdapterConfig struct {
	Type     string
	Host     string
	Port     int
	Database string
	Username string
	Password string
	Schema   string
	// Options carries driver settings such as sslmode and sslrootcert.
	Options map[string]string
}

// Option returns the named driver option, or def when it is unset or empty.
func (c AdapterConfig) Option(name, def string) string {
	if v := c.Options[name]; v != "" {
		return v
	}
	return def
}

// Endpoint renders host:port/database for logs and snapshot labels.
// It never includes credentials.
func (c AdapterConfig) Endpoint() string {
	s := c.Host
	if c.Port != 0 {
		s += ":" + strconv.Itoa(c.Port)
	}
	if c.Database != "" {
		s += "/" + c.Database
	}
	return s
}

// Rows wraps sql.Rows to provide a consistent interface.
type Rows struct {
	*sql.Rows
}
