package models

// Project is a directory recognised as a software project.
type Project struct {
	ID          string   `gorm:"column:id;primaryKey" json:"id"`
	Name        string   `gorm:"column:name;not null" json:"name"`
	Path        string   `gorm:"column:path;not null;unique" json:"path"`
	Category    string   `gorm:"column:category;not null" json:"category"`
	Frameworks  []string `gorm:"column:frameworks;type:text;serializer:json;not null" json:"frameworks"`
	ProjectType string   `gorm:"column:project_type;not null" json:"project_type"`
	Description *string  `gorm:"column:description" json:"description,omitempty"`
	ScanTime    string   `gorm:"column:scan_time;not null" json:"scan_time"`
	CreatedAt   string   `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt   string   `gorm:"column:updated_at;not null" json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Project) TableName() string {
	return "projects"
}

// CreateProjectRequest holds the fields for a new project.
type CreateProjectRequest struct {
	Name        string   `json:"name"`
	Path        string   `json:"path"`
	Category    string   `json:"category"`
	Frameworks  []string `json:"frameworks"`
	ProjectType string   `json:"project_type"`
	Description *string  `json:"description,omitempty"`
}

// UpdateProjectRequest is a partial update; nil fields are left unchanged.
type UpdateProjectRequest struct {
	Name        *string   `json:"name,omitempty"`
	Path        *string   `json:"path,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Frameworks  *[]string `json:"frameworks,omitempty"`
	ProjectType *string   `json:"project_type,omitempty"`
	Description *string   `json:"description,omitempty"`
}

// Category is a grouping label for projects. Projects refer to it by name.
type Category struct {
	ID        string `gorm:"column:id;primaryKey" json:"id"`
	Name      string `gorm:"column:name;not null;unique" json:"name"`
	CreatedAt string `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt string `gorm:"column:updated_at;not null" json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Category) TableName() string {
	return "project_categories"
}
