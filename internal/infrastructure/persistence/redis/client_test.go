package redis

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// replyError is a server error reply as go-redis surfaces it.
type replyError string

func (e replyError) Error() string { return string(e) }
func (replyError) RedisError()     {}

func TestIsAuthError(t *testing.T) {
	assert.True(t, isAuthError(replyError("NOAUTH Authentication required.")))
	assert.True(t, isAuthError(fmt.Errorf("ping: %w", replyError("WRONGPASS invalid username-password pair or user is disabled."))))
	assert.True(t, isAuthError(replyError("ERR invalid password")))

	assert.False(t, isAuthError(replyError("LOADING Redis is loading the dataset in memory")))
	assert.False(t, isAuthError(errors.New("NOAUTH text in a dial error is not a reply")))
	assert.False(t, isAuthError(nil))
}
