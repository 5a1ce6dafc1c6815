package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLoggingConfig struct {
	defaultLevel    string
	development     bool
	componentLevels map[string]string
}

func (f *fakeLoggingConfig) GetComponentLevel(component string) string {
	if level, ok := f.componentLevels[component]; ok {
		return level
	}
	return f.defaultLevel
}

func (f *fakeLoggingConfig) GetDefaultLevel() string { return f.defaultLevel }
func (f *fakeLoggingConfig) IsDevelopment() bool     { return f.development }

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		development bool
		wantErr     bool
	}{
		{name: "debug development", level: "debug", development: true},
		{name: "info production", level: "info", development: false},
		{name: "warn", level: "warn"},
		{name: "error", level: "error"},
		{name: "invalid level", level: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLogger(tt.level, tt.development)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, l)
		})
	}
}

func TestNewNopLogger(t *testing.T) {
	l := NewNopLogger()
	require.NotNil(t, l)

	// Must not panic on any level.
	l.Debug("debug")
	l.Info("info")
	l.Warn("warn")
	l.Error("error")
}

func TestWithComponent(t *testing.T) {
	l := NewNopLogger()
	child := l.WithComponent("syncer")
	require.NotNil(t, child)
	assert.NotSame(t, l, child)
}

func TestNewComponentLoggerFromConfig(t *testing.T) {
	tests := []struct {
		name      string
		component string
		config    Config
	}{
		{
			name:      "nil config falls back to default",
			component: "syncer",
			config:    nil,
		},
		{
			name:      "component level override",
			component: "reorg-detector",
			config: &fakeLoggingConfig{
				defaultLevel:    "info",
				componentLevels: map[string]string{"reorg-detector": "debug"},
			},
		},
		{
			name:      "invalid component level falls back to default level",
			component: "store",
			config: &fakeLoggingConfig{
				defaultLevel:    "info",
				componentLevels: map[string]string{"store": "chatty"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewComponentLoggerFromConfig(tt.component, tt.config)
			require.NotNil(t, l)
		})
	}
}

func TestGetDefaultLogger(t *testing.T) {
	l1 := GetDefaultLogger()
	l2 := GetDefaultLogger()
	require.NotNil(t, l1)
	assert.Same(t, l1, l2)
}
