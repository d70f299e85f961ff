package risk

import (
	"fmt"

	"github.com/dmitrymomot/trustkit/pkg/device"
	"github.com/dmitrymomot/trustkit/pkg/fingerprint"
)

// MaxScore caps the accumulated risk score.
const MaxScore = 100

// Level is the trust level derived from the risk score.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Trust level thresholds: score >= 70 is low trust, score >= 40 is medium.
const (
	lowTrustThreshold    = 70
	mediumTrustThreshold = 40
)

// Assessment is the result of scoring a device.
type Assessment struct {
	Score           int      `json:"score"`
	RiskFactors     []string `json:"risk_factors,omitempty"`
	TrustLevel      Level    `json:"trust_level"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// input bundles the signals a heuristic may inspect.
type input struct {
	fp      fingerprint.Fingerprint
	history *device.History
	proxied bool
}

// heuristic is one row of the scoring table. Every heuristic is evaluated the
// same way regardless of which one fires, so new rows slot in without control
// flow changes.
type heuristic struct {
	applies        func(in input) bool
	points         int
	factor         func(in input) string
	recommendation string
}

func staticFactor(label string) func(input) string {
	return func(input) string { return label }
}

// heuristics is the ordered scoring table. Order is part of the contract:
// the triggered set and resulting score must be reproducible per input.
var heuristics = []heuristic{
	{
		applies:        func(in input) bool { return in.history == nil },
		points:         30,
		factor:         staticFactor("New device with no usage history"),
		recommendation: "Require additional identity verification for this device",
	},
	{
		applies: func(in input) bool {
			return in.history != nil && in.history.FailureRatio() > 0.3
		},
		points:         25,
		factor:         staticFactor("High login failure rate"),
		recommendation: "Prompt for multi-factor authentication before granting access",
	},
	{
		applies: func(in input) bool {
			return in.history != nil && in.history.SuspiciousActivities > 5
		},
		points:         20,
		factor:         staticFactor("Repeated suspicious activity on this device"),
		recommendation: "Review recent account activity and consider a credential reset",
	},
	{
		applies: func(in input) bool {
			return in.history != nil && len(in.history.Locations) > 10
		},
		points:         15,
		factor:         staticFactor("Logins from an unusually high number of locations"),
		recommendation: "Confirm recent sign-in locations with the account owner",
	},
	{
		applies: func(in input) bool { return IsAutomatedAgent(in.fp.UserAgent) },
		points:  20,
		factor: func(in input) string {
			return fmt.Sprintf("Automation tool detected: %s", AgentName(in.fp.UserAgent))
		},
		recommendation: "Challenge the client with an interactive verification step",
	},
	{
		applies:        func(in input) bool { return in.proxied },
		points:         15,
		factor:         staticFactor("Connection through a VPN or proxy"),
		recommendation: "Apply stricter limits until the network origin is verified",
	},
	{
		applies: func(in input) bool {
			return in.history != nil && len(in.history.Locations) > 15
		},
		points:         25,
		factor:         staticFactor("Location churn inconsistent with a single device"),
		recommendation: "Re-verify the device binding before allowing sensitive actions",
	},
}

// Assessor scores device risk. The zero-configuration Assessor uses the
// in-process heuristic reputation oracle.
type Assessor struct {
	oracle ReputationOracle
}

// AssessorOption configures an Assessor.
type AssessorOption func(*Assessor)

// WithReputationOracle sets a custom VPN/proxy reputation oracle.
func WithReputationOracle(oracle ReputationOracle) AssessorOption {
	return func(a *Assessor) {
		if oracle != nil {
			a.oracle = oracle
		}
	}
}

// NewAssessor creates an Assessor.
func NewAssessor(opts ...AssessorOption) *Assessor {
	a := &Assessor{oracle: NewHeuristicOracle()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assess scores the device behind the fingerprint. A nil history means the
// device has never been seen. The scoring is strictly additive over the
// heuristic table, capped at MaxScore; repeated identical signals within one
// call never stack.
func (a *Assessor) Assess(fp fingerprint.Fingerprint, history *device.History) Assessment {
	in := input{
		fp:      fp,
		history: history,
		proxied: a.oracle.IsAnonymized(fp.IPAddress),
	}

	out := Assessment{}
	for _, h := range heuristics {
		if !h.applies(in) {
			continue
		}
		out.Score += h.points
		out.RiskFactors = append(out.RiskFactors, h.factor(in))
		out.Recommendations = append(out.Recommendations, h.recommendation)
	}

	if out.Score > MaxScore {
		out.Score = MaxScore
	}
	out.TrustLevel = levelFor(out.Score)
	return out
}

func levelFor(score int) Level {
	switch {
	case score >= lowTrustThreshold:
		return LevelLow
	case score >= mediumTrustThreshold:
		return LevelMedium
	default:
		return LevelHigh
	}
}
