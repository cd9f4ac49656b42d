package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"recipe-api/internal/domain"
)

// Timestamp accepts RFC 3339 as well as zone-less local date-times
// ("2024-03-01T12:00:00"), which are read as UTC.
type Timestamp struct{ time.Time }

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	for _, layout := range timestampLayouts {
		if v, err := time.Parse(layout, s); err == nil {
			t.Time = v
			return nil
		}
	}
	return fmt.Errorf("date %q is not a valid timestamp", s)
}

// RecipeRequest is the body of recipe create and update.
type RecipeRequest struct {
	Name        string     `json:"name"`
	Category    string     `json:"category"`
	Date        *Timestamp `json:"date"`
	Description string     `json:"description"`
	Ingredients []string   `json:"ingredients"`
	Directions  []string   `json:"directions"`
}

func (r *RecipeRequest) Validate() error {
	ve := &domain.ValidationError{}
	if isBlank(r.Name) {
		ve.Add("name", "Recipe must have a name.")
	}
	if isBlank(r.Category) {
		ve.Add("category", "Recipe should be categorized.")
	}
	if isBlank(r.Description) {
		ve.Add("description", "Recipe should have a description.")
	}
	checkList(ve, "ingredients", r.Ingredients, "Recipe should contain at least one ingredient.")
	checkList(ve, "directions", r.Directions, "Recipe should have at least one direction to be made.")
	return ve.Err()
}

func checkList(ve *domain.ValidationError, field string, items []string, emptyMsg string) {
	if items == nil {
		ve.Add(field, "must not be null")
		return
	}
	if len(items) == 0 {
		ve.Add(field, emptyMsg)
		return
	}
	for i, it := range items {
		if isBlank(it) {
			ve.Add(fmt.Sprintf("%s[%d]", field, i), "must not be blank")
		}
	}
}

func (r *RecipeRequest) ToInput() domain.RecipeInput {
	in := domain.RecipeInput{
		Name:        r.Name,
		Category:    r.Category,
		Description: r.Description,
		Ingredients: r.Ingredients,
		Directions:  r.Directions,
	}
	if r.Date != nil {
		d := r.Date.Time
		in.Date = &d
	}
	return in
}

// IDResponse answers recipe creation.
type IDResponse struct {
	ID uint `json:"id"`
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }
