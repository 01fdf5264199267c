package controller

// MetricsSnapshot is a point-in-time copy of the engine's cumulative
// counters. TotalRequests counts endpoint registrations plus each full
// reset; probe counters cover every probe outcome; the rule counters grow
// with their respective configuration calls. Counters never decrease except
// through ClearAll, which zeroes everything but TotalRequests.
type MetricsSnapshot struct {
	TotalRequests       uint64
	SuccessfulProbes    uint64
	FailedProbes        uint64
	TrafficRulesCreated uint64
	AutoScaleTriggers   uint64
}
