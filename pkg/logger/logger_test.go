package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		format  string
		verbose bool
		want    logrus.Level
		json    bool
	}{
		{"info text", "info", "text", false, logrus.InfoLevel, false},
		{"json", "error", "json", false, logrus.ErrorLevel, true},
		{"unknown level", "loud", "", false, logrus.WarnLevel, false},
		{"verbose wins", "error", "text", true, logrus.DebugLevel, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(tt.level, tt.format, tt.verbose)
			assert.Equal(t, tt.want, log.GetLevel())

			_, isJSON := log.Formatter.(*logrus.JSONFormatter)
			assert.Equal(t, tt.json, isJSON)
		})
	}
}
