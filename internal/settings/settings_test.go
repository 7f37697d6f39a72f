package settings

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/asteroid-belt/ccm/internal/models"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".claude", "settings.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func readSettings(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestReadRaw_CreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")

	content, err := ReadRaw(path)
	require.NoError(t, err)
	assert.Equal(t, "{}", content)
	assert.Equal(t, "{}", readSettings(t, path))
}

func TestReadRawOrEmpty(t *testing.T) {
	content, err := ReadRawOrEmpty(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Empty(t, content)
}

func TestWriteRaw_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "settings.json")
	content := "{\n\"b\": 1,   \"a\": [true]\n}"

	require.NoError(t, WriteRaw(path, content))

	got, err := ReadRaw(path)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestWriteRaw_RejectsInvalidJSON(t *testing.T) {
	path := writeSettings(t, `{"keep":true}`)

	err := WriteRaw(path, `{"broken":`)
	assert.True(t, errors.Is(err, ErrInvalidFormat))
	assert.Equal(t, `{"keep":true}`, readSettings(t, path))
}

func TestApplyCredential_PreservesUnknownFields(t *testing.T) {
	path := writeSettings(t, `{"foo":"bar","env":{"CUSTOM":"x"},"hooks":{"pre":["lint"]}}`)

	require.NoError(t, ApplyCredential(path, "sk-new", "https://api.example.com"))

	out := readSettings(t, path)
	assert.Equal(t, "bar", gjson.Get(out, "foo").String())
	assert.Equal(t, "x", gjson.Get(out, "env.CUSTOM").String())
	assert.Equal(t, "lint", gjson.Get(out, "hooks.pre.0").String())
	assert.Equal(t, "sk-new", gjson.Get(out, "env.ANTHROPIC_API_KEY").String())
	assert.Equal(t, "sk-new", gjson.Get(out, "env.ANTHROPIC_AUTH_TOKEN").String())
	assert.Equal(t, "https://api.example.com", gjson.Get(out, "env.ANTHROPIC_BASE_URL").String())
	assert.Equal(t, int64(1), gjson.Get(out, "env.CLAUDE_CODE_DISABLE_NONESSENTIAL_TRAFFIC").Int())
	assert.Equal(t, "echo 'sk-new'", gjson.Get(out, "apiKeyHelper").String())
	assert.True(t, gjson.Get(out, "permissions.allow").IsArray())
	assert.True(t, gjson.Get(out, "permissions.deny").IsArray())
	assert.True(t, strings.HasSuffix(out, "}\n"))
}

func TestApplyCredential_PreservesKeyOrder(t *testing.T) {
	path := writeSettings(t, `{"zeta":1,"env":{"ANTHROPIC_BASE_URL":"https://old"},"alpha":2}`)

	require.NoError(t, ApplyCredential(path, "sk", ""))

	out := readSettings(t, path)
	zeta := strings.Index(out, `"zeta"`)
	env := strings.Index(out, `"env"`)
	alpha := strings.Index(out, `"alpha"`)
	assert.True(t, zeta < env && env < alpha, "top-level key order changed:\n%s", out)
	assert.True(t, strings.Index(out, KeyBaseURL) < strings.Index(out, KeyAPIKey))
}

func TestApplyCredential_EmptyKeyClearsAliases(t *testing.T) {
	path := writeSettings(t, `{"env":{"ANTHROPIC_API_KEY":"a","ANTHROPIC_AUTH_TOKEN":"a","ANTHROPIC_BASE_URL":"https://keep"},"apiKeyHelper":"echo 'a'","api_key_helper":"old"}`)

	require.NoError(t, ApplyCredential(path, "", ""))

	out := readSettings(t, path)
	assert.False(t, gjson.Get(out, "env.ANTHROPIC_API_KEY").Exists())
	assert.False(t, gjson.Get(out, "env.ANTHROPIC_AUTH_TOKEN").Exists())
	assert.False(t, gjson.Get(out, "apiKeyHelper").Exists())
	assert.False(t, gjson.Get(out, "api_key_helper").Exists())
	assert.Equal(t, "https://keep", gjson.Get(out, "env.ANTHROPIC_BASE_URL").String())
}

func TestApplyCredential_MissingFileUsesTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fresh", "settings.json")

	require.NoError(t, ApplyCredential(path, "sk-fresh", ""))

	out := readSettings(t, path)
	assert.Equal(t, "sk-fresh", gjson.Get(out, "env.ANTHROPIC_API_KEY").String())
	assert.Equal(t, "https://api.packycode.com", gjson.Get(out, "env.ANTHROPIC_BASE_URL").String())
	assert.Equal(t, "echo 'sk-fresh'", gjson.Get(out, "apiKeyHelper").String())
}

func TestApplyCredential_ReplacesWrongShapes(t *testing.T) {
	path := writeSettings(t, `{"env":"nope","permissions":{"allow":"all","deny":["rm"]}}`)

	require.NoError(t, ApplyCredential(path, "sk", ""))

	out := readSettings(t, path)
	assert.True(t, gjson.Get(out, "env").IsObject())
	assert.Equal(t, 0, len(gjson.Get(out, "permissions.allow").Array()))
	assert.Equal(t, "rm", gjson.Get(out, "permissions.deny.0").String())
}

func TestApplyCredential_RejectsNonObject(t *testing.T) {
	for _, content := range []string{`[1,2]`, `{"env":`, `"text"`} {
		path := writeSettings(t, content)
		err := ApplyCredential(path, "sk", "")
		assert.True(t, errors.Is(err, ErrInvalidFormat), content)
		assert.Equal(t, content, readSettings(t, path))
	}
}

func TestApplyCredential_QuotesInKey(t *testing.T) {
	path := writeSettings(t, `{}`)

	require.NoError(t, ApplyCredential(path, "it's", ""))

	out := readSettings(t, path)
	assert.Equal(t, `echo 'it'\''s'`, gjson.Get(out, "apiKeyHelper").String())
}

func TestApplyAPIKey(t *testing.T) {
	path := writeSettings(t, `{}`)
	base := "https://proxy"

	require.NoError(t, ApplyAPIKey(path, &models.APIKey{Token: "sk-model", BaseURL: &base}))

	out := readSettings(t, path)
	assert.Equal(t, "sk-model", gjson.Get(out, "env.ANTHROPIC_API_KEY").String())
	assert.Equal(t, "https://proxy", gjson.Get(out, "env.ANTHROPIC_BASE_URL").String())
}

func TestShowEnv(t *testing.T) {
	path := writeSettings(t, `{"env":{"ANTHROPIC_API_KEY":"sk"},"permissions":{"allow":["Bash"],"deny":[]},"apiKeyHelper":"echo 'sk'"}`)

	s, err := ShowEnv(path)
	require.NoError(t, err)
	assert.Equal(t, "sk", s.Env["ANTHROPIC_API_KEY"])
	require.NotNil(t, s.Permissions)
	assert.Equal(t, []string{"Bash"}, s.Permissions.Allow)
	assert.Equal(t, "echo 'sk'", s.APIKeyHelper)

	s, err = ShowEnv(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Empty(t, s.Env)

	_, err = ShowEnv(writeSettings(t, `{`))
	assert.True(t, errors.Is(err, ErrInvalidFormat))
}

func TestFormat_TrailingNewline(t *testing.T) {
	out := string(Format([]byte(`{"a":{"b":1}}`)))
	assert.Equal(t, "{\n  \"a\": {\n    \"b\": 1\n  }\n}\n", out)
}
