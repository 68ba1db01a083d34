package main

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestRollCommand(t *testing.T) {
	stdout, stderr, err := execute(t, "roll", "--raw", "5")
	require.NoError(t, err)
	assert.Empty(t, stderr)
	assert.Regexp(t, regexp.MustCompile(`^(\*\*)?\d+(\*\*)? \+ 5 = (\*\*)?\d+(\*\*)?\n$`), stdout)
}

func TestRollCommandNoArgsRollsD20(t *testing.T) {
	stdout, _, err := execute(t, "roll")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^(\*\*)?\d+(\*\*)?\n$`), stdout)
}

func TestRollCommandSeedReplays(t *testing.T) {
	stdout, _, err := execute(t, "roll", "--seed", "table-7", "4d6", "4d6")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, lines[0], lines[1])

	again, _, err := execute(t, "roll", "--seed", "table-7", "4d6")
	require.NoError(t, err)
	assert.Equal(t, lines[0]+"\n", again)
}

func TestRollCommandReportsErrors(t *testing.T) {
	stdout, stderr, err := execute(t, "roll", "hello", "2d6", "d0")
	assert.ErrorIs(t, err, errReported)
	assert.Equal(t, 1, strings.Count(stdout, "\n"))
	assert.Contains(t, stderr, `hello: found "h" at 0`)
	assert.Contains(t, stderr, "d0: cannot roll dice of size 0")
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")

	stdout, _, err := execute(t, "token", "--subject", "table-42", "--days", "2")
	require.NoError(t, err)

	claims := &jwt.RegisteredClaims{}
	tok, err := jwt.ParseWithClaims(strings.TrimSpace(stdout), claims, func(*jwt.Token) (interface{}, error) {
		return []byte("cli-secret"), nil
	})
	require.NoError(t, err)
	assert.True(t, tok.Valid)
	assert.Equal(t, "table-42", claims.Subject)
	require.NotNil(t, claims.ExpiresAt)
	require.NotNil(t, claims.IssuedAt)
	assert.Equal(t, int64(2*24*60*60), claims.ExpiresAt.Unix()-claims.IssuedAt.Unix())
}

func TestTokenCommandNeedsSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, _, err := execute(t, "token", "--subject", "table-42")
	assert.EqualError(t, err, "sign token: jwt secret is empty")

	_, _, err = execute(t, "token")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "rollbot version dev\n", stdout)
}

func TestInvalidConfigFailsFast(t *testing.T) {
	t.Setenv("LOG_LEVEL", "loud")

	_, _, err := execute(t, "version")
	assert.ErrorContains(t, err, "LOG_LEVEL")
}
