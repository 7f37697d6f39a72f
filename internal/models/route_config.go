package models

// RouteConfig describes an HTTP route exposed by a proxy setup.
type RouteConfig struct {
	ID           string   `gorm:"column:id;primaryKey" json:"id"`
	Name         string   `gorm:"column:name;not null" json:"name"`
	Path         string   `gorm:"column:path;not null" json:"path"`
	Method       string   `gorm:"column:method;not null" json:"method"`
	Handler      string   `gorm:"column:handler;not null" json:"handler"`
	Middleware   []string `gorm:"column:middleware;type:text;serializer:json" json:"middleware,omitempty"`
	AuthRequired bool     `gorm:"column:auth_required;type:integer;not null;default:0" json:"auth_required"`
	Description  *string  `gorm:"column:description" json:"description,omitempty"`
	CreatedAt    string   `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt    string   `gorm:"column:updated_at;not null" json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (RouteConfig) TableName() string {
	return "route_configs"
}

// CreateRouteConfigRequest holds the fields for a new route.
type CreateRouteConfigRequest struct {
	Name         string   `json:"name"`
	Path         string   `json:"path"`
	Method       string   `json:"method"`
	Handler      string   `json:"handler"`
	Middleware   []string `json:"middleware,omitempty"`
	AuthRequired bool     `json:"auth_required"`
	Description  *string  `json:"description,omitempty"`
}

// UpdateRouteConfigRequest is a partial update; nil fields are left unchanged.
type UpdateRouteConfigRequest struct {
	Name         *string   `json:"name,omitempty"`
	Path         *string   `json:"path,omitempty"`
	Method       *string   `json:"method,omitempty"`
	Handler      *string   `json:"handler,omitempty"`
	Middleware   *[]string `json:"middleware,omitempty"`
	AuthRequired *bool     `json:"auth_required,omitempty"`
	Description  *string   `json:"description,omitempty"`
}
