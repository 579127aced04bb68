package utils

import (
	"testing"

	"github.com/alecthomas/assert"
)

func TestLastSegment(t *testing.T) {
	assert.Equal(t, LastSegment("/home/lab/suites"), "suites")
	assert.Equal(t, LastSegment("suites"), "suites")
}

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("AUAI Offus", "OFFUS"))
	assert.True(t, ContainsFold("auai offus", "OFFUS"))
	assert.False(t, ContainsFold("AUAI Onus", "OFFUS"))
}

func TestContainsAnyFold(t *testing.T) {
	blacklist := []string{"INCOMING", "AIAI", "AIFA", "QR"}
	assert.True(t, ContainsAnyFold("QR ISS Purchase", blacklist))
	assert.True(t, ContainsAnyFold("aifa reversal", blacklist))
	assert.False(t, ContainsAnyFold("AUAI Onus", blacklist))
	assert.False(t, ContainsAnyFold("AUAI Onus", nil))
}
