package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/shiftsql/pkg/credentials"

	// Register the redshift adapter via init()
	_ "github.com/leapstack-labs/shiftsql/pkg/adapters/redshift"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("host", "", "")
	fs.Int("port", 0, "")
	fs.String("output", "", "")
	fs.StringSlice("iam-role-arn", nil, "")
	fs.String("format", "", "command option, not config")
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultTargetType, cfg.Target.Type)
	assert.Equal(t, DefaultPort, cfg.Target.Port)
	assert.Equal(t, DefaultSSLMode, cfg.Target.SSLMode)
	assert.Equal(t, DefaultSnapshotPath, cfg.Snapshot.Path)
	assert.Equal(t, OutputText, cfg.Output)
	assert.False(t, cfg.Verbose)
	assert.Empty(t, cfg.File)
	assert.False(t, cfg.Credentials.HasCredentials())
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
target:
  host: cluster.example.com
  database: dev
  user: admin
  schema: analytics
  sslmode: require
  options:
    application_name: shiftsql
credentials:
  aws_account_id: "000123456789"
  iam_role_name: loader
  region: us-west-2
output: yaml
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.File)
	assert.Equal(t, "cluster.example.com", cfg.Target.Host)
	assert.Equal(t, 5439, cfg.Target.Port)
	assert.Equal(t, "analytics", cfg.Target.Schema)
	assert.Equal(t, "require", cfg.Target.SSLMode)
	assert.Equal(t, OutputYAML, cfg.Output)
	assert.Equal(t, "us-west-2", cfg.Credentials.Region)

	creds, err := cfg.Credentials.Resolve()
	require.NoError(t, err)
	assert.Equal(t, credentials.IAMRole{AccountID: "000123456789", RoleName: "loader"}, creds)

	ac := cfg.Target.AdapterConfig()
	assert.Equal(t, "redshift", ac.Type)
	assert.Equal(t, "admin", ac.Username)
	assert.Equal(t, map[string]string{"application_name": "shiftsql", "sslmode": "require"}, ac.Options)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "target:\n  host: from-file\n")
	t.Setenv("SHIFTSQL_TARGET__HOST", "from-env")
	t.Setenv("SHIFTSQL_CREDENTIALS__IAM_ROLE_ARNS",
		"arn:aws:iam::000123456789:role/a,arn:aws:iam::000123456789:role/b")

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Target.Host)
	assert.Equal(t, []string{
		"arn:aws:iam::000123456789:role/a",
		"arn:aws:iam::000123456789:role/b",
	}, cfg.Credentials.IAMRoleARNs)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SHIFTSQL_TARGET__HOST", "from-env")

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{
		"--host", "from-flag",
		"--port", "5440",
		"--output", "json",
		"--iam-role-arn", "arn:aws:iam::000123456789:role/a",
		"--format", "csv",
	}))

	cfg, err := Load("", fs)
	require.NoError(t, err)

	assert.Equal(t, "from-flag", cfg.Target.Host)
	assert.Equal(t, 5440, cfg.Target.Port)
	assert.Equal(t, OutputJSON, cfg.Output)
	assert.Equal(t, []string{"arn:aws:iam::000123456789:role/a"}, cfg.Credentials.IAMRoleARNs)
}

func TestLoad_UnsetFlagsDoNotOverride(t *testing.T) {
	path := writeConfig(t, "target:\n  host: from-file\n")

	cfg, err := Load(path, testFlags())
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Target.Host)
}

func TestLoad_FindsConfigInWorkingDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileNameAlt), []byte("verbose: true\n"), 0o600))
	t.Chdir(dir)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, ConfigFileNameAlt, cfg.File)
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	t.Setenv("RS_PASSWORD", "s3cret")
	path := writeConfig(t, "target:\n  password: ${RS_PASSWORD}\n  user: ${RS_UNSET_USER}\n")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Target.Password)
	assert.Equal(t, "${RS_UNSET_USER}", cfg.Target.User)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		errSubstr string
	}{
		{name: "bad output", content: "output: xml\n", errSubstr: "invalid output format"},
		{name: "unknown target type", content: "target:\n  type: oracle\n", errSubstr: "unknown adapter type"},
		{name: "port out of range", content: "target:\n  port: 70000\n", errSubstr: "out of range"},
		{name: "malformed yaml", content: "target: [\n", errSubstr: "error reading config file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestTargetConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		target    TargetConfig
		errSubstr string
	}{
		{name: "valid", target: TargetConfig{Type: "redshift", Port: 5439}},
		{name: "uppercase type", target: TargetConfig{Type: "Redshift", Port: 5439}},
		{name: "empty type", target: TargetConfig{Port: 5439}, errSubstr: "target type is required"},
		{name: "mysql", target: TargetConfig{Type: "mysql", Port: 5439}, errSubstr: "unknown adapter type"},
		{name: "zero port", target: TargetConfig{Type: "redshift"}, errSubstr: "out of range"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.target.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("SHIFTSQL_TEST_VAR", "value")

	assert.Equal(t, "value", expandEnvVars("${SHIFTSQL_TEST_VAR}"))
	assert.Equal(t, "pre-value-post", expandEnvVars("pre-${SHIFTSQL_TEST_VAR}-post"))
	assert.Equal(t, "${SHIFTSQL_NOT_SET}", expandEnvVars("${SHIFTSQL_NOT_SET}"))
	assert.Equal(t, "plain", expandEnvVars("plain"))
}
