package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// File names searched in the working directory when no --config is given.
const (
	ConfigFileName    = "shiftsql.yaml"
	ConfigFileNameAlt = "shiftsql.yml"
)

// EnvPrefix prefixes environment overrides. A double underscore nests:
// SHIFTSQL_TARGET__HOST sets target.host.
const EnvPrefix = "SHIFTSQL_"

// flagKeys maps command-line flags onto config keys. Flags not listed here
// are command options and never reach the config.
var flagKeys = map[string]string{
	"verbose":           "verbose",
	"output":            "output",
	"snapshot-db":       "snapshot.path",
	"host":              "target.host",
	"port":              "target.port",
	"database":          "target.database",
	"user":              "target.user",
	"schema":            "target.schema",
	"sslmode":           "target.sslmode",
	"access-key-id":     "credentials.access_key_id",
	"secret-access-key": "credentials.secret_access_key",
	"session-token":     "credentials.session_token",
	"aws-partition":     "credentials.aws_partition",
	"aws-account-id":    "credentials.aws_account_id",
	"iam-role-name":     "credentials.iam_role_name",
	"iam-role-arn":      "credentials.iam_role_arns",
	"region":            "credentials.region",
}

// findConfigFile returns explicit when set, otherwise the first default
// config file present in the working directory.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load builds the configuration.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	path := findConfigFile(cfgFile)
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	// 3. Environment: SHIFTSQL_TARGET__HOST -> target.host
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags explicitly set on the command line
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
				mapstructure.TextUnmarshallerHookFunc(),
			),
			WeaklyTypedInput: true,
			TagName:          "koanf",
			Result:           &cfg,
		},
	}); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = path

	expandTargetEnvVars(&cfg.Target)
	expandCredentialEnvVars(&cfg.Credentials)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var envVarRe = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars expands ${VAR} patterns with environment variable values.
// Unset variables are left as written.
func expandEnvVars(s string) string {
	return envVarRe.ReplaceAllStringFunc(s, func(match string) string {
		if val := os.Getenv(match[2 : len(match)-1]); val != "" {
			return val
		}
		return match
	})
}

func expandTargetEnvVars(t *TargetConfig) {
	t.Host = expandEnvVars(t.Host)
	t.Database = expandEnvVars(t.Database)
	t.User = expandEnvVars(t.User)
	t.Password = expandEnvVars(t.Password)
}

func expandCredentialEnvVars(c *CredentialsConfig) {
	c.AccessKeyID = expandEnvVars(c.AccessKeyID)
	c.SecretAccessKey = expandEnvVars(c.SecretAccessKey)
	c.SessionToken = expandEnvVars(c.SessionToken)
}
