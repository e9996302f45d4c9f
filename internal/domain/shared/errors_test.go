package shared

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"validation", NewDomainError("internship", "New", ErrValidation, "title is required"), "validation"},
		{"invalid input", NewDomainError("seed", "Load", ErrInvalidInput, "bad level"), "validation"},
		{"not found", ErrStudentNotFound, "not_found"},
		{"conflict", NewDomainError("application", "Apply", ErrAlreadyExists, "already applied"), "conflict"},
		{"capacity", NewDomainError("internship", "IncrementConfirmedSlots", ErrCapacityExceeded, "no remaining slots"), "capacity_exceeded"},
		{"eligibility", NewDomainError("student", "AssertCanApply", ErrNotEligible, "cap reached"), "not_eligible"},
		{"ownership", NewDomainError("company", "AssertOwns", ErrForbidden, "not your posting"), "forbidden"},
		{"state", NewDomainError("internship", "Close", ErrInvalidState, "not approved"), "invalid_state"},
		{"processed", NewDomainError("withdrawal", "Approve", ErrAlreadyProcessed, "done"), "invalid_state"},
		{"lock busy", WrapError("lock", "Lock", ErrLockNotAcquired, "lock student:U1", context.DeadlineExceeded), "retryable"},
		{"plain", errors.New("disk full"), "internal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestDomainError_IsMatchesKindThroughWrapping(t *testing.T) {
	err := fmt.Errorf("accept offer: %w",
		NewDomainError("internship", "IncrementConfirmedSlots", ErrInvalidState, "posting is closed"))

	assert.True(t, IsInvalidState(err))
	assert.False(t, IsCapacityExceeded(err))
	assert.Equal(t, "accept offer: internship.IncrementConfirmedSlots: posting is closed", err.Error())
}

func TestDomainError_WrappedCauseIsReachable(t *testing.T) {
	err := WrapError("lock", "Lock", ErrLockNotAcquired, "lock internship:INT0001", context.DeadlineExceeded)

	assert.True(t, IsRetryable(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
