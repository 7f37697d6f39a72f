// Package settings reads and edits the agent settings.json file.
//
// Edits go through sjson so the existing document keeps its key order and
// every field ccm does not manage.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/asteroid-belt/ccm/internal/config"
	"github.com/asteroid-belt/ccm/internal/models"
)

// ErrInvalidFormat is returned when content is not the JSON a file requires.
var ErrInvalidFormat = errors.New("invalid JSON format")

// Keys managed inside the settings document.
const (
	KeyAPIKey          = "ANTHROPIC_API_KEY"
	KeyAuthToken       = "ANTHROPIC_AUTH_TOKEN"
	KeyBaseURL         = "ANTHROPIC_BASE_URL"
	KeyDisableTraffic  = "CLAUDE_CODE_DISABLE_NONESSENTIAL_TRAFFIC"
	KeyAPIKeyHelper    = "apiKeyHelper"
	keyLegacyKeyHelper = "api_key_helper"
)

// template is the document ApplyCredential starts from when the file is missing.
const template = `{
  "env": {
    "ANTHROPIC_API_KEY": "",
    "ANTHROPIC_AUTH_TOKEN": "",
    "ANTHROPIC_BASE_URL": "https://api.packycode.com",
    "CLAUDE_CODE_DISABLE_NONESSENTIAL_TRAFFIC": 1
  },
  "permissions": {
    "allow": [],
    "deny": []
  },
  "apiKeyHelper": "echo 'your-api-key-here'"
}`

var prettyOptions = &pretty.Options{Width: 80, Prefix: "", Indent: "  ", SortKeys: false}

// ReadRaw returns the file content verbatim. A missing file is created
// containing "{}".
func ReadRaw(path string) (string, error) {
	path = config.ExpandHome(path)
	data, err := os.ReadFile(path)
	if err == nil {
		return string(data), nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("read settings: %w", err)
	}
	if err := writeFile(path, []byte("{}")); err != nil {
		return "", err
	}
	return "{}", nil
}

// ReadRawOrEmpty returns the file content, or "" when the file is missing.
func ReadRawOrEmpty(path string) (string, error) {
	data, err := os.ReadFile(config.ExpandHome(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read settings: %w", err)
	}
	return string(data), nil
}

// WriteRaw writes content verbatim after checking that it is valid JSON.
func WriteRaw(path, content string) error {
	if !gjson.Valid(content) {
		return ErrInvalidFormat
	}
	return writeFile(config.ExpandHome(path), []byte(content))
}

// ApplyCredential stores apiKey and baseURL in the env block of the file,
// leaving every other field in place. An empty apiKey removes the key
// entries; an empty baseURL leaves the stored one untouched.
func ApplyCredential(path, apiKey, baseURL string) error {
	path = config.ExpandHome(path)

	doc, err := ReadRawOrEmpty(path)
	if err != nil {
		return err
	}
	if doc == "" {
		doc = template
	}

	out, err := mergeCredential(doc, apiKey, baseURL)
	if err != nil {
		return err
	}
	return writeFile(path, out)
}

// ApplyAPIKey stores the token and base URL of key.
func ApplyAPIKey(path string, key *models.APIKey) error {
	baseURL := ""
	if key.BaseURL != nil {
		baseURL = *key.BaseURL
	}
	return ApplyCredential(path, key.Token, baseURL)
}

func mergeCredential(doc, apiKey, baseURL string) ([]byte, error) {
	if !gjson.Valid(doc) || !gjson.Parse(doc).IsObject() {
		return nil, ErrInvalidFormat
	}

	var err error
	set := func(path string, value interface{}) {
		if err == nil {
			doc, err = sjson.Set(doc, path, value)
		}
	}
	setRaw := func(path, raw string) {
		if err == nil {
			doc, err = sjson.SetRaw(doc, path, raw)
		}
	}
	del := func(path string) {
		if err == nil {
			doc, err = sjson.Delete(doc, path)
		}
	}

	if !gjson.Get(doc, "env").IsObject() {
		setRaw("env", "{}")
	}

	if apiKey == "" {
		del("env." + KeyAPIKey)
		del("env." + KeyAuthToken)
		del(KeyAPIKeyHelper)
	} else {
		set("env."+KeyAPIKey, apiKey)
		set("env."+KeyAuthToken, apiKey)
		set(KeyAPIKeyHelper, helperCommand(apiKey))
	}

	if baseURL != "" {
		set("env."+KeyBaseURL, baseURL)
	}
	set("env."+KeyDisableTraffic, 1)
	del(keyLegacyKeyHelper)

	if !gjson.Get(doc, "permissions").IsObject() {
		setRaw("permissions", "{}")
	}
	for _, list := range []string{"permissions.allow", "permissions.deny"} {
		if !gjson.Get(doc, list).IsArray() {
			setRaw(list, "[]")
		}
	}

	if err != nil {
		return nil, fmt.Errorf("edit settings: %w", err)
	}
	return Format([]byte(doc)), nil
}

// helperCommand returns a shell command that prints key.
func helperCommand(key string) string {
	return "echo '" + strings.ReplaceAll(key, "'", `'\''`) + "'"
}

// Format pretty-prints JSON with two-space indentation and a trailing newline.
func Format(doc []byte) []byte {
	out := pretty.PrettyOptions(doc, prettyOptions)
	if len(out) == 0 || out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	return out
}

// Permissions is the permissions block of the settings file.
type Permissions struct {
	Allow []string `json:"allow"`
	Deny  []string `json:"deny"`
}

// Settings is the part of the settings file ccm displays.
type Settings struct {
	Env          map[string]interface{} `json:"env,omitempty"`
	Permissions  *Permissions           `json:"permissions,omitempty"`
	APIKeyHelper string                 `json:"apiKeyHelper,omitempty"`
}

// ShowEnv reads the managed fields of the file. A missing file yields an
// empty Settings.
func ShowEnv(path string) (*Settings, error) {
	doc, err := ReadRawOrEmpty(path)
	if err != nil {
		return nil, err
	}
	s := &Settings{}
	if doc == "" {
		return s, nil
	}
	if err := json.Unmarshal([]byte(doc), s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return s, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
