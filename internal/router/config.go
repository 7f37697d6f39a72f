// Package router keeps the router config.json in step with the database.
//
// The database is the source of truth: providers live in their own table and
// every other top-level setting is a key/value row. The file is rewritten
// from the same config on every update.
package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"gorm.io/datatypes"

	"github.com/asteroid-belt/ccm/internal/models"
	"github.com/asteroid-belt/ccm/internal/settings"
)

// Defaults applied when the stored config leaves them unset.
const (
	DefaultAPITimeoutMS         uint32 = 600000
	DefaultLongContextThreshold uint32 = 60000
)

// Config is the router config file.
type Config struct {
	AnthropicAPIKey    *string           `json:"anthropic_api_key"`
	ProxyURL           *string           `json:"proxy_url"`
	Log                *bool             `json:"log"`
	Host               *string           `json:"host"`
	NonInteractiveMode *bool             `json:"non_interactive_mode"`
	APITimeoutMS       *uint32           `json:"api_timeout_ms"`
	CustomRouterPath   *string           `json:"custom_router_path"`
	Providers          []Provider        `json:"providers"`
	Router             Routes            `json:"router"`
	Transformers       []json.RawMessage `json:"transformers"`
}

// Provider is an upstream endpoint. Transformer is kept opaque.
type Provider struct {
	Name        string          `json:"name"`
	APIBaseURL  string          `json:"api_base_url"`
	APIKey      string          `json:"api_key"`
	Models      []string        `json:"models"`
	Transformer json.RawMessage `json:"transformer"`
}

// Routes picks a "provider,model" target per request kind.
type Routes struct {
	Default              *string `json:"default"`
	Background           *string `json:"background"`
	Think                *string `json:"think"`
	LongContext          *string `json:"long_context"`
	LongContextThreshold *uint32 `json:"long_context_threshold"`
	WebSearch            *string `json:"web_search"`
}

// DefaultConfig returns an empty config carrying the default timeouts.
func DefaultConfig() *Config {
	timeout := DefaultAPITimeoutMS
	threshold := DefaultLongContextThreshold
	return &Config{
		APITimeoutMS: &timeout,
		Providers:    []Provider{},
		Router:       Routes{LongContextThreshold: &threshold},
	}
}

func (c *Config) applyDefaults() {
	if c.APITimeoutMS == nil {
		v := DefaultAPITimeoutMS
		c.APITimeoutMS = &v
	}
	if c.Router.LongContextThreshold == nil {
		v := DefaultLongContextThreshold
		c.Router.LongContextThreshold = &v
	}
	if c.Providers == nil {
		c.Providers = []Provider{}
	}
}

// Parse decodes a router config file and fills in the default timeouts.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", settings.ErrInvalidFormat, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Marshal renders the config as indented JSON.
func (c *Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// toModels splits the config into provider rows and setting values. A nil
// value means the setting is to be removed.
func (c *Config) toModels() ([]models.Provider, map[string]*string, error) {
	providers := make([]models.Provider, 0, len(c.Providers))
	for _, p := range c.Providers {
		m := models.Provider{
			Name:       p.Name,
			APIBaseURL: p.APIBaseURL,
			APIKey:     p.APIKey,
			Models:     p.Models,
		}
		if len(p.Transformer) > 0 && string(p.Transformer) != "null" {
			m.Transformer = datatypes.JSON(p.Transformer)
		}
		providers = append(providers, m)
	}

	routes, err := json.Marshal(c.Router)
	if err != nil {
		return nil, nil, err
	}
	routesValue := string(routes)

	var transformers *string
	if c.Transformers != nil {
		raw, err := json.Marshal(c.Transformers)
		if err != nil {
			return nil, nil, err
		}
		s := string(raw)
		transformers = &s
	}

	settings := map[string]*string{
		models.RouterSettingRouter:             &routesValue,
		models.RouterSettingAPIKey:             c.AnthropicAPIKey,
		models.RouterSettingProxyURL:           c.ProxyURL,
		models.RouterSettingLog:                formatBool(c.Log),
		models.RouterSettingHost:               c.Host,
		models.RouterSettingNonInteractiveMode: formatBool(c.NonInteractiveMode),
		models.RouterSettingAPITimeoutMS:       formatUint(c.APITimeoutMS),
		models.RouterSettingCustomRouterPath:   c.CustomRouterPath,
		models.RouterSettingTransformers:       transformers,
	}
	return providers, settings, nil
}

// fromModels assembles a config from stored rows. Values that no longer
// parse are treated as unset.
func fromModels(providers []models.Provider, settings map[string]string) *Config {
	cfg := &Config{Providers: make([]Provider, 0, len(providers))}
	for i := range providers {
		p := &providers[i]
		out := Provider{
			Name:       p.Name,
			APIBaseURL: p.APIBaseURL,
			APIKey:     p.APIKey,
			Models:     p.Models,
		}
		if out.Models == nil {
			out.Models = []string{}
		}
		if p.HasTransformer() {
			out.Transformer = json.RawMessage(p.Transformer)
		}
		cfg.Providers = append(cfg.Providers, out)
	}

	if raw, ok := settings[models.RouterSettingRouter]; ok {
		_ = json.Unmarshal([]byte(raw), &cfg.Router)
	}
	cfg.AnthropicAPIKey = lookup(settings, models.RouterSettingAPIKey)
	cfg.ProxyURL = lookup(settings, models.RouterSettingProxyURL)
	cfg.Log = parseBool(lookup(settings, models.RouterSettingLog))
	cfg.Host = lookup(settings, models.RouterSettingHost)
	cfg.NonInteractiveMode = parseBool(lookup(settings, models.RouterSettingNonInteractiveMode))
	cfg.APITimeoutMS = parseUint(lookup(settings, models.RouterSettingAPITimeoutMS))
	cfg.CustomRouterPath = lookup(settings, models.RouterSettingCustomRouterPath)
	if raw := lookup(settings, models.RouterSettingTransformers); raw != nil {
		var list []json.RawMessage
		if err := json.Unmarshal([]byte(*raw), &list); err == nil {
			cfg.Transformers = list
		}
	}

	cfg.applyDefaults()
	return cfg
}

func lookup(settings map[string]string, key string) *string {
	v, ok := settings[key]
	if !ok {
		return nil
	}
	return &v
}

func formatBool(b *bool) *string {
	if b == nil {
		return nil
	}
	s := strconv.FormatBool(*b)
	return &s
}

func parseBool(s *string) *bool {
	if s == nil {
		return nil
	}
	b, err := strconv.ParseBool(*s)
	if err != nil {
		return nil
	}
	return &b
}

func formatUint(v *uint32) *string {
	if v == nil {
		return nil
	}
	s := strconv.FormatUint(uint64(*v), 10)
	return &s
}

func parseUint(s *string) *uint32 {
	if s == nil {
		return nil
	}
	n, err := strconv.ParseUint(*s, 10, 32)
	if err != nil {
		return nil
	}
	v := uint32(n)
	return &v
}
