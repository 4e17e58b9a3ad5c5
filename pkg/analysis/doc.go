// ABOUTME: Snapshot analysis package
// ABOUTME: Computes levels and the dominant frequency of captured audio
// Package analysis summarizes capture snapshots for display.
//
// Example:
//
//	snap := pipeline.Buffer().Snapshot(nil)
//	report := analysis.Analyze(snap[len(snap)-4096:], 48000)
//	fmt.Printf("%.1f Hz at %.3f RMS", report.PeakHz, report.RMS)
package analysis
