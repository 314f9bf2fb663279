package config

import "time"

// EngineConfig carries the occupancy engine's tuning knobs.  The
// default monitor cadence of 5 seconds matches the reference
// behavior.  The debounce window of the embeddable Searcher is set by
// its constructor, not here; the HTTP endpoints are plain
// request/response.
type EngineConfig struct {
	MonitorInterval  time.Duration // cadence of the live session monitor
	SearchMaxResults int           // default cap on candidates returned per search
}

// LoadEngineConfig reads engine knobs from the environment, falling
// back to defaults when unset or unparsable.
func LoadEngineConfig() EngineConfig {
	return EngineConfig{
		MonitorInterval:  envDur("MONITOR_INTERVAL", 5*time.Second),
		SearchMaxResults: envInt("SEARCH_MAX_RESULTS", 20),
	}
}
