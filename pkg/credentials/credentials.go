// Package credentials resolves bulk-load credentials into the string the
// server expects inside a CREDENTIALS clause.
package credentials

import (
	"regexp"
	"strings"

	"github.com/leapstack-labs/shiftsql/pkg/core"
)

// Partitions recognized when building role ARNs.
const (
	PartitionStandard = "aws"
	PartitionChina    = "aws-cn"
	PartitionGovCloud = "aws-us-gov"
)

var (
	accessKeyIDRe     = regexp.MustCompile(`^[A-Z0-9]{20}$`)
	secretAccessKeyRe = regexp.MustCompile(`^[A-Za-z0-9/+=]{40}$`)
	sessionTokenRe    = regexp.MustCompile(`^[A-Za-z0-9/+=]+$`)
	accountIDRe       = regexp.MustCompile(`^\d{12}$`)
	roleNameRe        = regexp.MustCompile(`^[A-Za-z0-9+=,.@_-]{1,64}$`)
	roleARNRe         = regexp.MustCompile(`^arn:(aws|aws-cn|aws-us-gov):iam::\d{12}:role/[A-Za-z0-9+=,.@_-]{1,64}$`)
)

// Credentials is one of KeySecret, IAMRole or IAMRoleARNs.
type Credentials interface {
	// Resolve validates the credentials and renders the credential string.
	Resolve() (string, error)

	credentials()
}

// KeySecret authenticates with an access key pair and an optional session token.
type KeySecret struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// IAMRole authenticates by assuming a role built from partition, account and role name.
type IAMRole struct {
	Partition string
	AccountID string
	RoleName  string
}

// IAMRoleARNs authenticates by chaining one or more role ARNs.
type IAMRoleARNs struct {
	ARNs []string
}

func (KeySecret) credentials()   {}
func (IAMRole) credentials()     {}
func (IAMRoleARNs) credentials() {}

func invalid(option, format string, args ...any) error {
	return core.NewOptionError(core.ErrInvalidCredentials, option, format, args...)
}

// Resolve renders aws_access_key_id=...;aws_secret_access_key=...[;token=...].
func (c KeySecret) Resolve() (string, error) {
	if !accessKeyIDRe.MatchString(c.AccessKeyID) {
		return "", invalid("access_key_id", "does not match %s", accessKeyIDRe)
	}
	if !secretAccessKeyRe.MatchString(c.SecretAccessKey) {
		return "", invalid("secret_access_key", "does not match %s", secretAccessKeyRe)
	}

	s := "aws_access_key_id=" + c.AccessKeyID + ";aws_secret_access_key=" + c.SecretAccessKey
	if c.SessionToken != "" {
		if !sessionTokenRe.MatchString(c.SessionToken) {
			return "", invalid("session_token", "does not match %s", sessionTokenRe)
		}
		s += ";token=" + c.SessionToken
	}
	return s, nil
}

// ARN returns the role ARN without validating it.
func (c IAMRole) ARN() string {
	partition := c.Partition
	if partition == "" {
		partition = PartitionStandard
	}
	return "arn:" + partition + ":iam::" + c.AccountID + ":role/" + c.RoleName
}

// Resolve renders aws_iam_role=arn:<partition>:iam::<account>:role/<name>.
// An empty partition means the standard partition.
func (c IAMRole) Resolve() (string, error) {
	switch c.Partition {
	case "", PartitionStandard, PartitionChina, PartitionGovCloud:
	default:
		return "", invalid("aws_partition", "%q is not a recognized partition", c.Partition)
	}
	if !accountIDRe.MatchString(c.AccountID) {
		return "", invalid("aws_account_id", "does not match %s", accountIDRe)
	}
	if !roleNameRe.MatchString(c.RoleName) {
		return "", invalid("iam_role_name", "does not match %s", roleNameRe)
	}
	return "aws_iam_role=" + c.ARN(), nil
}

// Resolve renders aws_iam_role=<arn1>,<arn2>,... in the order given.
func (c IAMRoleARNs) Resolve() (string, error) {
	if len(c.ARNs) == 0 {
		return "", invalid("iam_role_arns", "must not be empty")
	}
	for _, arn := range c.ARNs {
		if !roleARNRe.MatchString(arn) {
			return "", invalid("iam_role_arns", "%q does not match %s", arn, roleARNRe)
		}
	}
	return "aws_iam_role=" + strings.Join(c.ARNs, ","), nil
}

// Resolve validates c and returns its credential string.
// A nil Credentials is rejected.
func Resolve(c Credentials) (string, error) {
	if c == nil {
		return "", invalid("", "no credentials supplied")
	}
	return c.Resolve()
}
