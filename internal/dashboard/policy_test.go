package dashboard

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/julianstephens/smarthabit/internal/api"
	"github.com/julianstephens/smarthabit/internal/constants"
	"github.com/julianstephens/smarthabit/internal/models"
)

func strPtr(s string) *string { return &s }

func TestCanMarkDone(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	lateEvening := time.Date(2025, 3, 14, 23, 30, 0, 0, loc)

	tests := []struct {
		name string
		last *string
		now  time.Time
		want bool
	}{
		{"never completed", nil, lateEvening, true},
		{"completed today", strPtr("2025-03-14"), lateEvening, false},
		{"completed yesterday", strPtr("2025-03-13"), lateEvening, true},
		// 04:30 UTC on the 15th is still the 14th locally
		{"local date, not UTC", strPtr("2025-03-15"), lateEvening, true},
		{"date rolled over", strPtr("2025-03-14"), lateEvening.Add(31 * time.Minute), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := models.Habit{LastCompleted: tt.last}
			if got := CanMarkDone(h, tt.now); got != tt.want {
				t.Errorf("CanMarkDone() = %v, want %v", got, tt.want)
			}
		})
	}
}

func sampleHabits() []models.Habit {
	return []models.Habit{
		{ID: 1, Name: "Run", Tag: models.TagFitness},
		{ID: 2, Name: "Read", Tag: models.TagLearning},
		{ID: 3, Name: "Lift", Tag: models.TagFitness},
		{ID: 4, Name: "Sleep", Tag: models.TagHealth},
	}
}

func TestFilterByTag(t *testing.T) {
	habits := sampleHabits()
	original := sampleHabits()

	fitness := FilterByTag(habits, models.TagFitness)
	if len(fitness) != 2 || fitness[0].ID != 1 || fitness[1].ID != 3 {
		t.Errorf("FilterByTag(Fitness) = %+v", fitness)
	}
	if got := FilterByTag(habits, models.TagSelfCare); len(got) != 0 {
		t.Errorf("FilterByTag(Self-Care) = %+v, want empty", got)
	}

	// Filtering twice is the same as once
	if again := FilterByTag(fitness, models.TagFitness); !reflect.DeepEqual(again, fitness) {
		t.Errorf("filter not idempotent: %+v vs %+v", again, fitness)
	}

	// All after any other tag restores everything
	if all := FilterByTag(habits, models.TagAll); !reflect.DeepEqual(all, original) {
		t.Errorf("FilterByTag(All) = %+v, want %+v", all, original)
	}
	if !reflect.DeepEqual(habits, original) {
		t.Error("FilterByTag mutated its input")
	}
}

func TestNextTagCycles(t *testing.T) {
	tag := models.TagAll
	seen := map[models.Tag]bool{}
	for range models.FilterTags {
		seen[tag] = true
		tag = NextTag(tag)
	}
	if tag != models.TagAll {
		t.Errorf("cycle ended at %q, want All", tag)
	}
	if len(seen) != len(models.FilterTags) {
		t.Errorf("visited %d tags, want %d", len(seen), len(models.FilterTags))
	}
	if NextTag("bogus") != models.TagAll {
		t.Error("unknown tag should reset to All")
	}
}

func TestDecide(t *testing.T) {
	habits := sampleHabits()
	fetchErr := &api.Error{Kind: api.KindNetwork, Message: "connection refused"}

	tests := []struct {
		name   string
		state  State
		view   View
		banner string
		msg    string
		retry  bool
	}{
		{"initial load", State{Loading: true}, ViewLoading, "", "", false},
		{"reload with data", State{Loading: true, Habits: habits}, ViewList, "", "", false},
		{"fetch failed with nothing shown", State{Err: fetchErr}, ViewFatal, "", "Error loading habits: connection refused", true},
		{"background refresh failed", State{Err: fetchErr, Habits: habits}, ViewList, "connection refused", "", false},
		{"no habits yet", State{Habits: []models.Habit{}}, ViewEmpty, "", constants.MsgNoHabits, false},
		{"payload not a list", State{Err: fmt.Errorf("got {}: %w", api.ErrNotAList)}, ViewEmpty, constants.MsgNoHabitsFound, constants.MsgNoHabits, false},
		{"plain error", State{Err: errors.New("")}, ViewFatal, "", "Error loading habits: " + constants.MsgLoadFailed, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(tt.state)
			if d.View != tt.view {
				t.Errorf("View = %v, want %v", d.View, tt.view)
			}
			if d.Banner != tt.banner {
				t.Errorf("Banner = %q, want %q", d.Banner, tt.banner)
			}
			if d.Message != tt.msg {
				t.Errorf("Message = %q, want %q", d.Message, tt.msg)
			}
			if d.Retry != tt.retry {
				t.Errorf("Retry = %v, want %v", d.Retry, tt.retry)
			}
		})
	}
}
