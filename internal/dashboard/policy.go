// Package dashboard holds the rules behind the habit dashboard, independent of
// how it is drawn: when a habit may be marked done, tag filtering, heatmap
// layout, which view to show and how the list is kept in sync.
package dashboard

import (
	"errors"
	"time"

	"github.com/julianstephens/smarthabit/internal/api"
	"github.com/julianstephens/smarthabit/internal/constants"
	"github.com/julianstephens/smarthabit/internal/models"
)

// CanMarkDone is false exactly when the habit was last completed on now's
// calendar date in now's location.
func CanMarkDone(h models.Habit, now time.Time) bool {
	if h.LastCompleted == nil {
		return true
	}
	return *h.LastCompleted != now.Format(constants.DateFormat)
}

// FilterByTag returns the habits carrying tag. TagAll returns the input as is.
// The input slice is never modified.
func FilterByTag(habits []models.Habit, tag models.Tag) []models.Habit {
	if tag == models.TagAll || tag == "" {
		return habits
	}
	out := make([]models.Habit, 0, len(habits))
	for _, h := range habits {
		if h.Tag == tag {
			out = append(out, h)
		}
	}
	return out
}

// NextTag cycles through the filter choices.
func NextTag(current models.Tag) models.Tag {
	for i, t := range models.FilterTags {
		if t == current {
			return models.FilterTags[(i+1)%len(models.FilterTags)]
		}
	}
	return models.TagAll
}

type View int

const (
	ViewLoading View = iota
	ViewFatal
	ViewEmpty
	ViewList
)

func (v View) String() string {
	switch v {
	case ViewLoading:
		return "loading"
	case ViewFatal:
		return "fatal"
	case ViewEmpty:
		return "empty"
	default:
		return "list"
	}
}

// State is what the dashboard knows after the latest fetch.
type State struct {
	Habits  []models.Habit
	Loading bool
	Err     error
}

// Decision tells the renderer what to draw.
type Decision struct {
	View View
	// Message is the headline of the fatal and empty views
	Message string
	// Banner is an error shown above the list without hiding it
	Banner string
	Retry  bool
}

// Decide picks the view. A failed fetch only takes over the screen when there
// is nothing to show; a payload that was not a list counts as no habits.
func Decide(s State) Decision {
	empty := len(s.Habits) == 0
	notAList := errors.Is(s.Err, api.ErrNotAList)

	switch {
	case s.Loading && empty:
		return Decision{View: ViewLoading}
	case s.Err != nil && empty && !notAList:
		return Decision{View: ViewFatal, Message: "Error loading habits: " + errorText(s.Err), Retry: true}
	case empty:
		d := Decision{View: ViewEmpty, Message: constants.MsgNoHabits}
		if notAList {
			d.Banner = constants.MsgNoHabitsFound
		}
		return d
	default:
		d := Decision{View: ViewList}
		if s.Err != nil {
			d.Banner = errorText(s.Err)
		}
		return d
	}
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	if msg := api.Classify(err).Message; msg != "" {
		return msg
	}
	return constants.MsgLoadFailed
}
