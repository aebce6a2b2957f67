// Package gorm provides the GORM-backed persistence bridge for recipes and
// context links, plus read-only access to the mission and module records
// owned by the upstream platform backend.
package gorm

import "time"

// RecipeModel is the database model for recipes. List-valued fields are
// stored JSON-encoded so the schema works on both Postgres and the SQLite
// databases used in tests.
type RecipeModel struct {
	ID               string `gorm:"type:uuid;primaryKey"`
	Title            string `gorm:"size:200;not null"`
	Slug             string `gorm:"size:220;uniqueIndex;not null"`
	Summary          string `gorm:"size:500"`
	Difficulty       string `gorm:"size:20;index"`
	EstimatedMinutes int
	TrackCodes       string `gorm:"type:text"`
	SkillCodes       string `gorm:"type:text"`
	ToolsUsed        string `gorm:"type:text"`
	Content          string `gorm:"type:text;not null"`
	Validated        bool
	CreatedBy        string `gorm:"size:64;index"`
	IsActive         bool   `gorm:"index"`
	AvgRating        float64
	UsageCount       int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName returns the table name for recipes
func (RecipeModel) TableName() string {
	return "recipes"
}

// ContextLinkModel is the database model relating recipes to contexts
type ContextLinkModel struct {
	ID            string `gorm:"type:uuid;primaryKey"`
	RecipeID      string `gorm:"type:uuid;index;not null"`
	ContextType   string `gorm:"size:16;not null"`
	ContextID     string `gorm:"size:64;index;not null"`
	PositionOrder int
	CreatedAt     time.Time
}

// TableName returns the table name for context links
func (ContextLinkModel) TableName() string {
	return "recipe_context_links"
}

// MissionModel mirrors the mission records owned by the platform backend.
// Read-only here; never migrated by this service.
type MissionModel struct {
	ID             string `gorm:"primaryKey"`
	Title          string
	Instructions   string
	RequiredSkills string `gorm:"type:text"`
	CommonFailures string `gorm:"type:text"`
}

// TableName returns the table name for missions
func (MissionModel) TableName() string {
	return "missions"
}

// ModuleModel mirrors the curriculum module records owned by the platform
// backend. Read-only here; never migrated by this service.
type ModuleModel struct {
	ID                 string `gorm:"primaryKey"`
	Title              string
	Description        string
	LearningObjectives string `gorm:"type:text"`
	CommonFailures     string `gorm:"type:text"`
}

// TableName returns the table name for curriculum modules
func (ModuleModel) TableName() string {
	return "curriculum_modules"
}
