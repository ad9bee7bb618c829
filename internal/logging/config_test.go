package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateCorrelationID(t *testing.T) {
	first := GenerateCorrelationID()
	second := GenerateCorrelationID()

	assert.Len(t, first, 16)
	assert.NotEqual(t, first, second)
}

func TestDebugFlags_Any(t *testing.T) {
	assert.False(t, DebugFlags{}.Any())
	assert.True(t, DebugFlags{Git: true}.Any())
	assert.True(t, DebugFlags{Clone: true}.Any())
	assert.True(t, DebugFlags{Generate: true}.Any())
}
