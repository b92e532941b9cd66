package config

import "time"

// Runtime holds the tunables of the arena commands.
type Runtime struct {
	SSHHost     string
	SSHPort     string
	HostKeyPath string
	MetricsAddr string

	ScenarioPath string        // Empty means the built-in scenario
	TickTime     time.Duration // Wall-clock interval between advances
	TimeScale    float64       // Simulated seconds per wall-clock second
	Duration     time.Duration // Simulated time for headless runs
	FireEvery    float64       // Seconds between automatic shots; 0 disables
}

// Server tick rate
const (
	TickRate        = 30
	DefaultTickTime = time.Second / TickRate
)

// Load reads the runtime configuration from the environment.
func Load() Runtime {
	return Runtime{
		SSHHost:      GetEnv("SSH_HOST", "::"),
		SSHPort:      GetEnv("SSH_PORT", "2222"),
		HostKeyPath:  GetEnv("SSH_HOST_KEY", "/app/keys/host_key"),
		MetricsAddr:  GetEnv("ARENA_METRICS_ADDR", ":9090"),
		ScenarioPath: GetEnv("ARENA_SCENARIO", ""),
		TickTime:     GetEnvDuration("ARENA_TICK", DefaultTickTime),
		TimeScale:    GetEnvFloat("ARENA_TIME_SCALE", 1),
		Duration:     GetEnvDuration("ARENA_DURATION", 10*time.Second),
		FireEvery:    GetEnvFloat("ARENA_FIRE_EVERY", 1.5),
	}
}
