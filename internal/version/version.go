// ABOUTME: Build version and product identification
// ABOUTME: Reported in logs, the snapshot server hello and mDNS
package version

// Version is overridden at build time with -ldflags "-X .../version.Version=..."
var Version = "0.1.0"

const (
	Product      = "Practical Overtone"
	Manufacturer = "practicalovertone"
)
