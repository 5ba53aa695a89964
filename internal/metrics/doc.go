// Package metrics provides sim.Metric implementations over recorded
// vehicle samples.
package metrics
