package credentials

import "github.com/leapstack-labs/shiftsql/pkg/core"

// Options is the flat form in which credentials arrive from configuration
// or flags. Exactly one of the three credential forms may be populated.
// SessionToken belongs to the key form and AWSPartition to the role form.
type Options struct {
	AccessKeyID     string   `koanf:"access_key_id"`
	SecretAccessKey string   `koanf:"secret_access_key"`
	SessionToken    string   `koanf:"session_token"`
	AWSPartition    string   `koanf:"aws_partition"`
	AWSAccountID    string   `koanf:"aws_account_id"`
	IAMRoleName     string   `koanf:"iam_role_name"`
	IAMRoleARNs     []string `koanf:"iam_role_arns"`
}

// FromOptions picks the credential form populated in o and validates it.
func FromOptions(o Options) (Credentials, error) {
	usesKey := o.AccessKeyID != "" || o.SecretAccessKey != ""
	usesRole := o.AWSAccountID != "" || o.IAMRoleName != ""
	usesARNs := len(o.IAMRoleARNs) > 0

	forms := 0
	for _, used := range []bool{usesKey, usesRole, usesARNs} {
		if used {
			forms++
		}
	}

	switch {
	case forms == 0:
		return nil, core.NewOptionError(core.ErrInvalidCredentials, "",
			"either access key based credentials or role based credentials should be specified")
	case forms > 1:
		return nil, core.NewOptionError(core.ErrInvalidCredentials, "",
			"either access key based credentials or role based credentials should be specified, but not both")
	}

	switch {
	case usesKey && o.AWSPartition != "":
		return nil, core.NewOptionError(core.ErrInvalidCredentials, "aws_partition",
			"only applies to iam_role_name; it cannot be used with access key credentials")
	case !usesKey && o.SessionToken != "":
		return nil, core.NewOptionError(core.ErrInvalidCredentials, "session_token",
			"only applies to access key credentials")
	case usesARNs && o.AWSPartition != "":
		return nil, core.NewOptionError(core.ErrInvalidCredentials, "aws_partition",
			"only applies to iam_role_name; role ARNs carry their own partition")
	}

	var c Credentials
	switch {
	case usesKey:
		c = KeySecret{AccessKeyID: o.AccessKeyID, SecretAccessKey: o.SecretAccessKey, SessionToken: o.SessionToken}
	case usesRole:
		c = IAMRole{Partition: o.AWSPartition, AccountID: o.AWSAccountID, RoleName: o.IAMRoleName}
	default:
		c = IAMRoleARNs{ARNs: o.IAMRoleARNs}
	}

	if _, err := c.Resolve(); err != nil {
		return nil, err
	}
	return c, nil
}
