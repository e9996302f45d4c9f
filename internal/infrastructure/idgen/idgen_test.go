package idgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/careerhub/placement-hub/internal/domain/shared"
)

func TestSequence_NextID(t *testing.T) {
	seq := NewSequence()

	assert.Equal(t, "INT0001", seq.NextID(shared.IDKindInternship))
	assert.Equal(t, "INT0002", seq.NextID(shared.IDKindInternship))
	assert.Equal(t, "APP0001", seq.NextID(shared.IDKindApplication))
}

func TestSequence_Observe(t *testing.T) {
	seq := NewSequence()
	seq.Observe("WRQ0041")
	seq.Observe("WRQ0007")
	seq.Observe("U1234567A")
	seq.Observe("INT-ABC")

	assert.Equal(t, "WRQ0042", seq.NextID(shared.IDKindWithdrawal))
	assert.Equal(t, "INT0001", seq.NextID(shared.IDKindInternship))
}

func TestUUID_NextID(t *testing.T) {
	id := UUID{}.NextID(shared.IDKindApplication)
	assert.True(t, strings.HasPrefix(id, "APP-"))
	assert.Len(t, id, len("APP-")+36)
	assert.NotEqual(t, id, UUID{}.NextID(shared.IDKindApplication))
}
