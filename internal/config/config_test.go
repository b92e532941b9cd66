package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("ARENA_TEST_STR", "value")
	assert.Equal(t, "value", GetEnv("ARENA_TEST_STR", "fallback"))
	assert.Equal(t, "fallback", GetEnv("ARENA_TEST_UNSET", "fallback"))
}

func TestGetEnvFloat(t *testing.T) {
	t.Setenv("ARENA_TEST_FLOAT", "2.5")
	assert.Equal(t, 2.5, GetEnvFloat("ARENA_TEST_FLOAT", 1))

	t.Setenv("ARENA_TEST_FLOAT", "fast")
	assert.Equal(t, 1.0, GetEnvFloat("ARENA_TEST_FLOAT", 1))
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("ARENA_TEST_DUR", "250ms")
	assert.Equal(t, 250*time.Millisecond, GetEnvDuration("ARENA_TEST_DUR", time.Second))

	t.Setenv("ARENA_TEST_DUR", "soon")
	assert.Equal(t, time.Second, GetEnvDuration("ARENA_TEST_DUR", time.Second))
}

func TestLoad(t *testing.T) {
	t.Setenv("SSH_PORT", "2323")
	t.Setenv("ARENA_TIME_SCALE", "4")
	t.Setenv("ARENA_DURATION", "1m")

	rt := Load()
	assert.Equal(t, "2323", rt.SSHPort)
	assert.Equal(t, 4.0, rt.TimeScale)
	assert.Equal(t, time.Minute, rt.Duration)
	assert.Equal(t, DefaultTickTime, rt.TickTime)
}

func TestDefaultConstants(t *testing.T) {
	c := Default()
	assert.Equal(t, 300000.0, c.SpeedOfLight)
	assert.Equal(t, 2, c.BulletMaxBounces)
	assert.Less(t, c.SignificantOverlap, 1.0)
}
