// Package source acquires the raw meal collection from outside the service.
package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"mealcatalog/internal/model"
)

// ErrUnsuccessful is returned when the backend answers with success:false.
var ErrUnsuccessful = errors.New("meal listing reported failure")

// MealSource fetches the full meal collection.
type MealSource interface {
	FetchMeals(ctx context.Context) ([]model.Meal, error)
}

// Envelope is the response shape of the storefront's bulk listing endpoint
type Envelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    []model.Meal `json:"data"`
}

// StaticSource serves a fixed collection. Used by tests and the CLI.
type StaticSource struct {
	Meals []model.Meal
}

// FetchMeals returns a copy of the fixed collection
func (s StaticSource) FetchMeals(ctx context.Context) ([]model.Meal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]model.Meal, len(s.Meals))
	copy(out, s.Meals)
	return out, nil
}

// DecodeMeals accepts either the {success, data} envelope or a bare array.
func DecodeMeals(data []byte) ([]model.Meal, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("empty meal payload")
	}

	if data[0] == '[' {
		var meals []model.Meal
		if err := json.Unmarshal(data, &meals); err != nil {
			return nil, fmt.Errorf("failed to decode meal array: %w", err)
		}
		return nonNil(meals), nil
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode meal envelope: %w", err)
	}
	if !env.Success {
		if env.Message != "" {
			return nil, fmt.Errorf("%w: %s", ErrUnsuccessful, env.Message)
		}
		return nil, ErrUnsuccessful
	}
	return nonNil(env.Data), nil
}

func nonNil(meals []model.Meal) []model.Meal {
	if meals == nil {
		return []model.Meal{}
	}
	return meals
}
