package testutil

import "github.com/leapstack-labs/shiftsql/pkg/credentials"

// Access key pair in the shape AWS issues them. Not a real account.
const (
	AccessKeyID     = "AKIAEXAMPLEEXAMPLE00"
	SecretAccessKey = "wJalrXUtnFEMI/K7MDENG/bPxRfiCYEXAMPLEKEY"
)

// KeySecretText is the CREDENTIALS string for the test key pair.
const KeySecretText = "aws_access_key_id=" + AccessKeyID + ";aws_secret_access_key=" + SecretAccessKey

// KeySecretOptions returns credential options selecting the test key pair.
func KeySecretOptions() credentials.Options {
	return credentials.Options{AccessKeyID: AccessKeyID, SecretAccessKey: SecretAccessKey}
}
