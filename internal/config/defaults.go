package config

// Default configuration values.
const (
	DefaultTargetType   = "redshift"
	DefaultPort         = 5439
	DefaultSSLMode      = "verify-full"
	DefaultSnapshotPath = ".shiftsql/snapshots.db"
	DefaultOutput       = OutputText
)

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

func defaults() map[string]any {
	return map[string]any{
		"target.type":    DefaultTargetType,
		"target.port":    DefaultPort,
		"target.sslmode": DefaultSSLMode,
		"snapshot.path":  DefaultSnapshotPath,
		"output":         DefaultOutput,
		"verbose":        false,
	}
}
