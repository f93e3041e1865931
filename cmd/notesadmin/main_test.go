package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgo/notes/api/internal/database"
	"github.com/forgo/notes/api/pkg/jwt"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSchema_PrintsEmbeddedSchema(t *testing.T) {
	out, err := run(t, "schema")

	require.NoError(t, err)
	assert.Equal(t, database.Schema, out)
	assert.Contains(t, out, "note_title_unique")
}

func TestToken_SignsWithConfiguredSecret(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("ACCESS_TOKEN_SECRET", "cli-access")
	t.Setenv("REFRESH_TOKEN_SECRET", "cli-refresh")

	out, err := run(t, "token", "--username", "ops", "--roles", "Admin,Manager")
	require.NoError(t, err)

	tokens, err := jwt.NewService(jwt.Config{AccessSecret: "cli-access", RefreshSecret: "cli-refresh"})
	require.NoError(t, err)
	claims, err := tokens.ValidateAccessToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.UserInfo.Username)
	assert.Equal(t, []string{"Admin", "Manager"}, claims.UserInfo.Roles)
}

func TestToken_JSONOutput(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("ACCESS_TOKEN_SECRET", "cli-access")
	t.Setenv("REFRESH_TOKEN_SECRET", "cli-refresh")

	out, err := run(t, "token", "--json", "--ttl", "1h")
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, "Bearer", payload["tokenType"])
	assert.Equal(t, float64(3600), payload["expiresIn"])
	assert.NotEmpty(t, payload["accessToken"])
}

func TestCreateAdmin_RequiresCredentials(t *testing.T) {
	_, err := run(t, "create-admin", "--username", "root")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "--password")
}

func TestSeed_HelpListsFlags(t *testing.T) {
	out, err := run(t, "seed", "--help")

	require.NoError(t, err)
	for _, flag := range []string{"--users", "--notes", "--prefix", "--cleanup"} {
		assert.Contains(t, out, flag)
	}
}
