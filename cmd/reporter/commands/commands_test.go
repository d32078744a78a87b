package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskPassword(t *testing.T) {
	masked := maskPassword("postgres://reader:secret@db:5432/eod")
	assert.NotContains(t, masked, "secret")
	assert.Contains(t, masked, "reader:")
	assert.Contains(t, masked, "@db:5432/eod")
	assert.Equal(t, "postgres://db:5432/eod", maskPassword("postgres://db:5432/eod"))
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"report", "symbol", "market", "schedule", "api", "check"} {
		assert.True(t, names[want], want)
	}
}
