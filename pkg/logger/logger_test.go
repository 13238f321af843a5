package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{in: "debug", want: zerolog.DebugLevel},
		{in: " DEBUG ", want: zerolog.DebugLevel},
		{in: "warn", want: zerolog.WarnLevel},
		{in: "warning", want: zerolog.WarnLevel},
		{in: "error", want: zerolog.ErrorLevel},
		{in: "info", want: zerolog.InfoLevel},
		{in: "verbose", want: zerolog.InfoLevel},
		{in: "", want: zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNewWithConfigLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, NewWithConfig("debug", false, false).GetLevel())
	assert.Equal(t, zerolog.ErrorLevel, NewWithConfig("error", true, true).GetLevel())
}
