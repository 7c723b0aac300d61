package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	testCases := []struct {
		name    string
		from    string
		to      string
		allowed bool
	}{
		{"reported to in-progress", StatusReported, StatusInProgress, true},
		{"reported to dismissed", StatusReported, StatusDismissed, true},
		{"reported straight to resolved", StatusReported, StatusResolved, false},
		{"in-progress to resolved", StatusInProgress, StatusResolved, true},
		{"in-progress to dismissed", StatusInProgress, StatusDismissed, true},
		{"in-progress back to reported", StatusInProgress, StatusReported, false},
		{"resolved is terminal", StatusResolved, StatusInProgress, false},
		{"dismissed is terminal", StatusDismissed, StatusReported, false},
		{"same status is a no-op", StatusInProgress, StatusInProgress, true},
		{"unknown source", "archived", StatusResolved, false},
		{"unknown target", StatusReported, "archived", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, CanTransition(tc.from, tc.to))
		})
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusReported, StatusInProgress, StatusResolved, StatusDismissed} {
		assert.True(t, ValidStatus(s), s)
	}
	assert.False(t, ValidStatus("closed"))
	assert.False(t, ValidStatus(""))
}

func TestRoleAllowed(t *testing.T) {
	assert.True(t, RoleAllowed(RoleAuthority, RoleAuthority, RoleAdmin))
	assert.True(t, RoleAllowed(RoleAdmin, RoleAuthority, RoleAdmin))
	assert.False(t, RoleAllowed(RoleUser, RoleAuthority, RoleAdmin))
	assert.False(t, RoleAllowed("", RoleAuthority))
	assert.False(t, RoleAllowed(RoleAdmin))
}

func TestValidHazardType(t *testing.T) {
	for _, ht := range HazardTypes {
		assert.True(t, ValidHazardType(ht), ht)
	}
	assert.False(t, ValidHazardType("Volcano"))
	assert.False(t, ValidHazardType("road"))
}

func TestValidPriority(t *testing.T) {
	for _, p := range []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical} {
		assert.True(t, ValidPriority(p), p)
	}
	assert.False(t, ValidPriority("low"))
	assert.False(t, ValidPriority("Urgent"))
}
