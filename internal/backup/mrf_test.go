package backup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSupportsMRF(t *testing.T) {
	tests := []struct {
		version string
		want    bool
	}{
		{"20.7", true},
		{"20.7.1", true},
		{"20.12.3", true},
		{"21.1", true},
		{"20.6", false},
		{"20.6.9", false},
		{"19.9", false},
		{"20", false},
		{"", false},
		{"not-a-version", false},
		{"20.x", false},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			assert.Equal(t, tt.want, supportsMRF(tt.version))
		})
	}
}
