package models

// APIKey is a stored credential for an Anthropic-compatible endpoint.
// The column names keep the upper-case spelling used by the settings file.
type APIKey struct {
	ID          string  `gorm:"column:id;primaryKey" json:"id"`
	Name        string  `gorm:"column:name;not null" json:"name"`
	Token       string  `gorm:"column:ANTHROPIC_API_KEY;not null" json:"ANTHROPIC_API_KEY"`
	Description *string `gorm:"column:description" json:"description,omitempty"`
	BaseURL     *string `gorm:"column:ANTHROPIC_BASE_URL" json:"ANTHROPIC_BASE_URL,omitempty"`
	IsActive    bool    `gorm:"column:is_active;type:integer;not null;default:1" json:"is_active"`
	CreatedAt   string  `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt   string  `gorm:"column:updated_at;not null" json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (APIKey) TableName() string {
	return "api_keys"
}

// MaskedToken returns the token with everything but the first and last four
// characters hidden.
func (k *APIKey) MaskedToken() string {
	if len(k.Token) <= 8 {
		return "********"
	}
	return k.Token[:4] + "..." + k.Token[len(k.Token)-4:]
}

// CreateAPIKeyRequest holds the fields for a new API key.
type CreateAPIKeyRequest struct {
	Name        string  `json:"name"`
	Token       string  `json:"ANTHROPIC_API_KEY"`
	Description *string `json:"description,omitempty"`
	BaseURL     *string `json:"ANTHROPIC_BASE_URL,omitempty"`
}

// UpdateAPIKeyRequest is a partial update; nil fields are left unchanged.
type UpdateAPIKeyRequest struct {
	Name        *string `json:"name,omitempty"`
	Token       *string `json:"ANTHROPIC_API_KEY,omitempty"`
	Description *string `json:"description,omitempty"`
	BaseURL     *string `json:"ANTHROPIC_BASE_URL,omitempty"`
}

// ConfigItem is the settings-shaped view of an API key.
type ConfigItem struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Data        ConfigItemData `json:"data"`
	Description *string        `json:"description,omitempty"`
	IsActive    bool           `json:"is_active"`
	CreatedAt   string         `json:"created_at"`
	UpdatedAt   string         `json:"updated_at"`
}

// ConfigItemData mirrors the env block written into the settings file.
type ConfigItemData struct {
	APIKey  string  `json:"ANTHROPIC_API_KEY"`
	BaseURL *string `json:"ANTHROPIC_BASE_URL,omitempty"`
}

// ConfigItem converts the key to its settings-shaped view.
func (k *APIKey) ConfigItem() ConfigItem {
	return ConfigItem{
		ID:   k.ID,
		Name: k.Name,
		Data: ConfigItemData{
			APIKey:  k.Token,
			BaseURL: k.BaseURL,
		},
		Description: k.Description,
		IsActive:    k.IsActive,
		CreatedAt:   k.CreatedAt,
		UpdatedAt:   k.UpdatedAt,
	}
}
