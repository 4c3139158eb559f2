package util

import (
	"fmt"
	"os"
	"runtime"
)

// HostInfo describes the machine a run executes on. It is written to the
// run log so batches can be compared across hosts.
type HostInfo struct {
	Hostname  string
	Cores     int
	Platform  string
	GoVersion string
}

// Host collects HostInfo for the current process.
func Host() HostInfo {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	return HostInfo{
		Hostname:  hostname,
		Cores:     runtime.NumCPU(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		GoVersion: runtime.Version(),
	}
}

func (h HostInfo) String() string {
	return fmt.Sprintf("%s (%d cores, %s, %s)", h.Hostname, h.Cores, h.Platform, h.GoVersion)
}

// ClampJobs limits a requested number of concurrent runs to the number of
// runs and the number of logical cores. Returns at least 1.
func ClampJobs(requested, runs int) int {
	return max(min(requested, runs, runtime.NumCPU()), 1)
}
