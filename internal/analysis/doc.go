// Package analysis inspects recorded telemetry channels.
//
//   - [Spectrum]: Hann-windowed power spectrum of a uniformly sampled series
//   - [DominantFrequency]: strongest non-DC frequency, e.g. suspension bounce
//   - [Settling]: where a series stops moving and the value it settles at
//
// Series are plain float slices; use sim.Series to pull one out of a run:
//
//	_, susp, _ := sim.Series(result.Samples, "suspension")
//	hz, err := analysis.DominantFrequency(susp, dt)
package analysis
