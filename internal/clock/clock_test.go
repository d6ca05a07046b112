package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestService_UptimeTracksClock(t *testing.T) {
	fake := NewFake(time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC))
	svc := NewService(fake)

	assert.Equal(t, time.Duration(0), svc.Uptime())
	assert.Equal(t, fake.Now(), svc.Start())

	fake.Advance(90 * time.Second)
	assert.Equal(t, 90*time.Second, svc.Uptime())
	// Start is captured once and never moves.
	assert.Equal(t, time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC), svc.Start())
}

func TestFake_SetAndAdvance(t *testing.T) {
	fake := NewFake(time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC))

	fake.Set(time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 21, fake.Now().Day())

	fake.Advance(24 * time.Hour)
	assert.Equal(t, 22, fake.Now().Day())
}
