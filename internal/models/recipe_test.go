package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTagColorValidation(t *testing.T) {
	tests := []struct {
		color string
		valid bool
	}{
		{"#00ff8f", true},
		{"#FFF", true},
		{"#AbCdEf", true},
		{"00ff8f", false},
		{"#00ff8", false},
		{"#gggggg", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.color, func(t *testing.T) {
			tag := Tag{Name: "Dinner", Color: tt.color, Slug: "dinner"}
			err := tag.BeforeSave(nil)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTagColor)
			}
		})
	}
}
