package models

// ConfigPath is a named bookmark for a settings file location.
type ConfigPath struct {
	ID          string  `gorm:"column:id;primaryKey" json:"id"`
	Name        string  `gorm:"column:name;not null" json:"name"`
	Path        string  `gorm:"column:path;not null" json:"path"`
	Description *string `gorm:"column:description" json:"description,omitempty"`
	CreatedAt   string  `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt   string  `gorm:"column:updated_at;not null" json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (ConfigPath) TableName() string {
	return "config_paths"
}

// CreateConfigPathRequest holds the fields for a new bookmark.
type CreateConfigPathRequest struct {
	Name        string  `json:"name"`
	Path        string  `json:"path"`
	Description *string `json:"description,omitempty"`
}

// UpdateConfigPathRequest is a partial update; nil fields are left unchanged.
type UpdateConfigPathRequest struct {
	Name        *string `json:"name,omitempty"`
	Path        *string `json:"path,omitempty"`
	Description *string `json:"description,omitempty"`
}

// CurrentConfigPath records the settings file currently in use.
// The table holds a single row with ID 1.
type CurrentConfigPath struct {
	ID        uint   `gorm:"column:id;primaryKey" json:"id"`
	Path      string `gorm:"column:path;not null" json:"path"`
	UpdatedAt string `gorm:"column:updated_at;not null" json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (CurrentConfigPath) TableName() string {
	return "current_config_path"
}

// CurrentRouterConfigPath records a custom router config location.
type CurrentRouterConfigPath CurrentConfigPath

// TableName specifies the table name for GORM.
func (CurrentRouterConfigPath) TableName() string {
	return "current_router_config_path"
}
