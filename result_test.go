package ferry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultOk(t *testing.T) {
	res := Ok("display value")

	assert.True(t, res.OK())
	assert.False(t, res.Failed())

	value, err := res.Unwrap()
	assert.Equal(t, "display value", value)
	assert.NoError(t, err)
}

func TestResultFail(t *testing.T) {
	cause := errors.New("data unavailable")
	res := Fail[string](cause)

	assert.False(t, res.OK())
	assert.True(t, res.Failed())

	value, err := res.Unwrap()
	assert.Equal(t, "", value)
	assert.Equal(t, cause, err)
}
