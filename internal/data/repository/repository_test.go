package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLikePattern(t *testing.T) {
	tests := []struct {
		filter string
		want   string
	}{
		{"", "%"},
		{"*", "%"},
		{"pizza*", "pizza%"},
		{"*zaP*", "%zaP%"},
		{"50%*", `50\%%`},
		{"pizza_diner", `pizza\_diner`},
		{`back\slash`, `back\\slash`},
	}

	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			assert.Equal(t, tt.want, LikePattern(tt.filter))
		})
	}
}
