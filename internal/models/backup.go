package models

import "github.com/asteroid-belt/ccm/internal/hash"

// Backup is a point-in-time copy of a config file.
// Rows are append-only; the newest row for a filename is the current one.
type Backup struct {
	ID        uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Filename  string `gorm:"column:filename;not null" json:"filename"`
	Content   string `gorm:"column:content;not null" json:"content"`
	Size      int64  `gorm:"column:size;not null" json:"size"`
	CreatedAt string `gorm:"column:created_at;not null" json:"created_at"`
}

// TableName specifies the table name for GORM.
func (Backup) TableName() string {
	return "backups"
}

// BackupFile is the listing view of a backup.
type BackupFile struct {
	Filename  string `json:"filename"`
	Path      string `json:"path"`
	Size      int64  `json:"size"`
	CreatedAt string `json:"created_at"`
	Checksum  string `json:"checksum,omitempty"` // database snapshots only
}

// VirtualPathPrefix marks paths that live in the database rather than on disk.
const VirtualPathPrefix = "database://"

// File returns the listing view of the backup.
func (b *Backup) File() BackupFile {
	return BackupFile{
		Filename:  b.Filename,
		Path:      VirtualPathPrefix + b.Filename,
		Size:      b.Size,
		CreatedAt: b.CreatedAt,
		Checksum:  hash.Checksum(b.Content),
	}
}
