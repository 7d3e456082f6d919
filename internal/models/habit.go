package models

import (
	"fmt"
	"strings"
	"time"
)

type Tag string

const (
	TagHealth       Tag = "Health"
	TagProductivity Tag = "Productivity"
	TagSelfCare     Tag = "Self-Care"
	TagFitness      Tag = "Fitness"
	TagLearning     Tag = "Learning"

	// TagAll is a filter-only value that matches every habit
	TagAll Tag = "All"
)

// Tags lists the tags a habit may carry, in display order.
var Tags = []Tag{TagHealth, TagProductivity, TagSelfCare, TagFitness, TagLearning}

// FilterTags lists the choices offered by the tag filter.
var FilterTags = append([]Tag{TagAll}, Tags...)

func (t Tag) Valid() bool {
	for _, v := range Tags {
		if v == t {
			return true
		}
	}
	return false
}

// ParseTag resolves a tag name case-insensitively.
func ParseTag(s string) (Tag, error) {
	for _, v := range FilterTags {
		if strings.EqualFold(string(v), strings.TrimSpace(s)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("invalid tag %q (expected one of Health, Productivity, Self-Care, Fitness, Learning)", s)
}

type HabitLog struct {
	Date string `json:"date"` // YYYY-MM-DD format
}

// Habit mirrors the server representation. Streak, LastCompleted and Logs are
// owned by the server and never edited locally.
type Habit struct {
	ID            int        `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Tag           Tag        `json:"tag"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	Streak        int        `json:"streak"`
	LastCompleted *string    `json:"last_completed"` // YYYY-MM-DD format
	Logs          []HabitLog `json:"logs"`
}

// HabitDraft is the transient state of the create-habit form.
type HabitDraft struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	Tag            Tag    `json:"tag"`
	ProgressStatus string `json:"progressStatus"`
}

// HabitPatch carries the fields of a partial update; nil fields are omitted.
type HabitPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Tag         *Tag    `json:"tag,omitempty"`
}

func (p HabitPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Tag == nil
}
