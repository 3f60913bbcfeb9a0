package browser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOptionsWithDefaults(t *testing.T) {
	o := Options{}.withDefaults()
	assert.Equal(t, 1280, o.Width)
	assert.Equal(t, 720, o.Height)
	assert.Equal(t, defaultUserAgent, o.UserAgent)
	assert.Equal(t, 5*time.Second, o.IdleWait)
	assert.NotNil(t, o.Logger)

	o = Options{Width: 800, Height: 600, UserAgent: "test", IdleWait: time.Second}.withDefaults()
	assert.Equal(t, 800, o.Width)
	assert.Equal(t, 600, o.Height)
	assert.Equal(t, "test", o.UserAgent)
	assert.Equal(t, time.Second, o.IdleWait)
}
