// Package device keeps per-device usage history and a bounded trust score.
//
// A History record is created the first time a device fingerprint is seen and
// updated on every subsequent sighting: session counters, login outcomes,
// suspicious-activity counters and a bounded list of distinct locations. The
// trust score is an integer in [0,100] adjusted by fixed deltas per observed
// event and clamped to the range.
//
// Persistence goes through the Store interface; MemoryStore suits tests and
// single-process deployments, RedisStore shares records between processes.
package device
