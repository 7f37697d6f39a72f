package models

import (
	"strings"

	"gorm.io/datatypes"
)

// Provider is an upstream endpoint usable by the router.
// Transformer is stored and returned as-is.
type Provider struct {
	ID          string         `gorm:"column:id;primaryKey" json:"-"`
	Name        string         `gorm:"column:name;not null;unique" json:"name"`
	APIBaseURL  string         `gorm:"column:api_base_url;not null" json:"api_base_url"`
	APIKey      string         `gorm:"column:api_key;not null" json:"api_key"`
	Models      []string       `gorm:"column:models;type:text;serializer:json;not null" json:"models"`
	Transformer datatypes.JSON `gorm:"column:transformer" json:"transformer,omitempty"`
	CreatedAt   string         `gorm:"column:created_at;not null" json:"-"`
	UpdatedAt   string         `gorm:"column:updated_at;not null" json:"-"`
}

// TableName specifies the table name for GORM.
func (Provider) TableName() string {
	return "providers"
}

// HasTransformer reports whether a transformer value is stored.
func (p *Provider) HasTransformer() bool {
	v := strings.TrimSpace(string(p.Transformer))
	return v != "" && v != "null"
}

// RouterSetting is a top-level router setting stored as a key/value pair.
type RouterSetting struct {
	ID          string `gorm:"column:id;primaryKey" json:"id"`
	ConfigKey   string `gorm:"column:config_key;not null;unique" json:"config_key"`
	ConfigValue string `gorm:"column:config_value;not null" json:"config_value"`
	CreatedAt   string `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt   string `gorm:"column:updated_at;not null" json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (RouterSetting) TableName() string {
	return "router_configs"
}

// Router setting keys.
const (
	RouterSettingRouter             = "router"
	RouterSettingAPIKey             = "anthropic_api_key"
	RouterSettingProxyURL           = "proxy_url"
	RouterSettingLog                = "log"
	RouterSettingHost               = "host"
	RouterSettingNonInteractiveMode = "non_interactive_mode"
	RouterSettingAPITimeoutMS       = "api_timeout_ms"
	RouterSettingCustomRouterPath   = "custom_router_path"
	RouterSettingTransformers       = "transformers"
)
