package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveCategory(t *testing.T) {
	known := []string{"Italian", "Indian", "Vegetarian", "Dessert", "Fast Food"}

	tests := []struct {
		term   string
		want   string
		wantOK bool
	}{
		{"italian", "Italian", true},
		{"  INDIAN ", "Indian", true},
		{"veg", "Vegetarian", true},
		{"pizza", "Italian", true},
		{"sweets", "Dessert", true},
		{"fast", "Fast Food", true},
		{"sushi", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			got, ok := ResolveCategory(tt.term, known)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveCategory_NoKnownCategories(t *testing.T) {
	got, ok := ResolveCategory("veggie", nil)
	assert.True(t, ok)
	assert.Equal(t, "Vegetarian", got)
}

func TestNormalizeCategory(t *testing.T) {
	assert.Equal(t, "Italian", NormalizeCategory("pasta", []string{"Italian"}))
	assert.Equal(t, "Korean", NormalizeCategory(" korean", []string{"Italian"}))
	assert.Equal(t, "", NormalizeCategory("   ", nil))
}
