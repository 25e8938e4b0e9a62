package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSystemNow(t *testing.T) {
	before := time.Now()
	got := System{}.Now()
	after := time.Now()

	assert.False(t, got.Before(before))
	assert.False(t, got.After(after))
}

func TestFunc(t *testing.T) {
	fixed := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	c := Func(func() time.Time { return fixed })

	assert.Equal(t, fixed, c.Now())
}

func TestOrSystem(t *testing.T) {
	assert.IsType(t, System{}, OrSystem(nil))

	fixed := Func(func() time.Time { return time.Time{} })
	assert.NotNil(t, OrSystem(fixed))
	assert.True(t, OrSystem(fixed).Now().IsZero())
}
