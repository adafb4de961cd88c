// Package main provides tests for the shiftsql CLI.
package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/shiftsql/internal/cli"
	"github.com/leapstack-labs/shiftsql/internal/testutil"
)

const (
	accessKeyID     = testutil.AccessKeyID
	secretAccessKey = testutil.SecretAccessKey
)

// run executes the root command from an empty working directory.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())

	cmd := cli.NewRootCmd()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "shiftsql v"+cli.Version)
}

func TestHelpCommand(t *testing.T) {
	out, err := run(t, "--help")
	require.NoError(t, err)

	for _, name := range []string{"copy", "unload", "ctas", "mview", "append", "library", "inspect", "tables", "snapshot", "query"} {
		assert.Contains(t, out, name)
	}
}

func TestCopyWithFlagCredentials(t *testing.T) {
	out, err := run(t, "copy", "sales.orders", "s3://b/k", "--format", "json",
		"--access-key-id", accessKeyID, "--secret-access-key", secretAccessKey)
	require.NoError(t, err)

	want := "COPY sales.orders FROM 's3://b/k' WITH CREDENTIALS AS " +
		"'" + testutil.KeySecretText + "' " +
		"FORMAT AS JSON AS 'auto' TRUNCATECOLUMNS IGNOREHEADER AS 0;"
	assert.Equal(t, want, squash(out))
}

func TestCopyWithRoleARNs(t *testing.T) {
	out, err := run(t, "copy", "t", "s3://b/k", "--region", "us-west-2",
		"--iam-role-arn", "arn:aws:iam::000123456789:role/a",
		"--iam-role-arn", "arn:aws:iam::000123456789:role/b")
	require.NoError(t, err)
	assert.Contains(t, out, "'aws_iam_role=arn:aws:iam::000123456789:role/a,arn:aws:iam::000123456789:role/b'")
	assert.Contains(t, out, "REGION 'us-west-2'")
}

func TestCopyRejectsMixedCredentials(t *testing.T) {
	_, err := run(t, "copy", "t", "s3://b/k",
		"--access-key-id", accessKeyID, "--secret-access-key", secretAccessKey,
		"--iam-role-name", "loader", "--aws-account-id", "000123456789")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "but not both")
}

func TestStructuredOutputFlag(t *testing.T) {
	out, err := run(t, "-o", "json", "mview", "refresh", "public.mv")
	require.NoError(t, err)
	assert.Contains(t, out, `"sql": "REFRESH MATERIALIZED VIEW public.mv"`)
}

func TestInvalidOutputFlag(t *testing.T) {
	_, err := run(t, "-o", "xml", "mview", "refresh", "public.mv")
	require.Error(t, err)
}

func TestSnapshotListEmpty(t *testing.T) {
	db := filepath.Join(t.TempDir(), "snapshots.db")
	out, err := run(t, "snapshot", "list", "--snapshot-db", db)
	require.NoError(t, err)
	assert.Equal(t, "(no snapshots)\n", out)
}

func TestQueryWithoutSnapshots(t *testing.T) {
	db := filepath.Join(t.TempDir(), "missing.db")
	_, err := run(t, "query", "--snapshot-db", db, "SELECT 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "snapshot database not found")
}

func TestLongIdentifierRejected(t *testing.T) {
	_, err := run(t, "mview", "refresh", strings.Repeat("v", 128))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "longer than 127 bytes")
}
