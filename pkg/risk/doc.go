// Package risk scores device risk from a fingerprint and the device's usage
// history.
//
// Assess is a pure function: it performs no I/O, mutates nothing, and yields
// identical results for identical inputs. Scoring runs a uniform ordered list
// of heuristics, each contributing a fixed number of points plus a
// human-readable factor label and an actionable recommendation. The total is
// strictly additive, capped at 100.
//
// External signals that would normally require network lookups, such as VPN
// and proxy detection, are modeled behind the ReputationOracle interface so
// implementations stay swappable without touching scoring logic. The bundled
// HeuristicOracle matches well-known anonymizer address ranges in-process.
package risk
