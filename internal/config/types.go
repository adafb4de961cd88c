// Package config loads shiftsql configuration from defaults, a YAML file,
// SHIFTSQL_ environment variables and command-line flags.
package config

import (
	"strings"

	"github.com/leapstack-labs/shiftsql/pkg/core"
	"github.com/leapstack-labs/shiftsql/pkg/credentials"
)

// Config holds all CLI configuration options.
type Config struct {
	Target      TargetConfig      `koanf:"target"`
	Credentials CredentialsConfig `koanf:"credentials"`
	Snapshot    SnapshotConfig    `koanf:"snapshot"`
	Output      string            `koanf:"output"`
	Verbose     bool              `koanf:"verbose"`

	// File is the config file that was loaded, if any.
	File string `koanf:"-"`
}

// TargetConfig holds the cluster connection settings.
type TargetConfig struct {
	Type        string            `koanf:"type"`
	Host        string            `koanf:"host"`
	Port        int               `koanf:"port"`
	Database    string            `koanf:"database"`
	User        string            `koanf:"user"`
	Password    string            `koanf:"password"`
	Schema      string            `koanf:"schema"`
	SSLMode     string            `koanf:"sslmode"`
	SSLRootCert string            `koanf:"sslrootcert"`
	Options     map[string]string `koanf:"options"`
}

// CredentialsConfig holds the authorization used by COPY, UNLOAD and
// CREATE LIBRARY.
type CredentialsConfig struct {
	credentials.Options `koanf:",squash"`

	Region string `koanf:"region"`
}

// SnapshotConfig locates the offline catalog snapshot database.
type SnapshotConfig struct {
	Path string `koanf:"path"`
}

// AdapterConfig converts the target section into the adapter's connection
// settings. sslmode and sslrootcert travel as driver options.
func (t TargetConfig) AdapterConfig() core.AdapterConfig {
	opts := make(map[string]string, len(t.Options)+2)
	for k, v := range t.Options {
		opts[k] = v
	}
	if t.SSLMode != "" {
		opts["sslmode"] = t.SSLMode
	}
	if t.SSLRootCert != "" {
		opts["sslrootcert"] = t.SSLRootCert
	}
	return core.AdapterConfig{
		Type:     strings.ToLower(t.Type),
		Host:     t.Host,
		Port:     t.Port,
		Database: t.Database,
		Username: t.User,
		Password: t.Password,
		Schema:   t.Schema,
		Options:  opts,
	}
}

// HasCredentials reports whether any credential option is set.
func (c CredentialsConfig) HasCredentials() bool {
	o := c.Options
	return o.AccessKeyID != "" || o.SecretAccessKey != "" || o.SessionToken != "" ||
		o.AWSAccountID != "" || o.IAMRoleName != "" || len(o.IAMRoleARNs) > 0
}

// Resolve validates the credential options and returns the credential form
// they describe.
func (c CredentialsConfig) Resolve() (credentials.Credentials, error) {
	return credentials.FromOptions(c.Options)
}
