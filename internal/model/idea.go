package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MinDescriptionRunes is the shortest description the pipeline accepts.
// Evaluations of shorter descriptions are too shallow to be useful.
const MinDescriptionRunes = 20

// Track is the competition track an idea is entered in
type Track string

const (
	TrackHigherEdu  Track = "高教主赛道" // Main track for undergraduate/graduate teams
	TrackRedJourney Track = "红旅赛道"  // "Red journey" rural revitalization track
	TrackVocational Track = "职教赛道"  // Vocational education track
	TrackIndustry   Track = "产业赛道"  // Industry proposition track
)

// Tracks lists every accepted track in display order
var Tracks = []Track{TrackHigherEdu, TrackRedJourney, TrackVocational, TrackIndustry}

// ErrInputIncomplete is matched by every idea completeness failure
var ErrInputIncomplete = errors.New("input incomplete")

// Idea is a user-submitted project description subject to evaluation
type Idea struct {
	Title       string `json:"title" yaml:"title" validate:"required"`
	Description string `json:"description" yaml:"description" validate:"required,min=20"`
	Track       Track  `json:"track" yaml:"track" validate:"required,oneof=高教主赛道 红旅赛道 职教赛道 产业赛道"`
	Category    string `json:"category" yaml:"category"` // Category code, validated by the rubric policy
}

// InputIncompleteError lists the idea fields that failed the completeness check
type InputIncompleteError struct {
	Fields []string
}

func (e *InputIncompleteError) Error() string {
	return fmt.Sprintf("input incomplete: %s", strings.Join(e.Fields, ", "))
}

// Is makes errors.Is(err, ErrInputIncomplete) succeed
func (e *InputIncompleteError) Is(target error) bool {
	return target == ErrInputIncomplete
}

var ideaValidator = validator.New()

// Normalized returns a copy with surrounding whitespace removed from every field
func (i Idea) Normalized() Idea {
	return Idea{
		Title:       strings.TrimSpace(i.Title),
		Description: strings.TrimSpace(i.Description),
		Track:       Track(strings.TrimSpace(string(i.Track))),
		Category:    strings.TrimSpace(i.Category),
	}
}

// Validate checks the minimum-completeness contract on the normalized idea.
// Category validity is not checked here: it depends on the selected rubric policy.
func (i Idea) Validate() error {
	n := i.Normalized()
	err := ideaValidator.Struct(n)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate idea: %w", err)
	}

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fieldLabel(fe))
	}
	return &InputIncompleteError{Fields: fields}
}

func fieldLabel(fe validator.FieldError) string {
	name := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("%s (at least %s characters)", name, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s (one of %s)", name, fe.Param())
	default:
		return name
	}
}
