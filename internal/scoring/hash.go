package scoring

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
)

// EngineVersion is stamped on every snapshot and audit row and folded into
// the input hash. Bump it whenever a change can move a score for the same
// inputs, including catalog point or grading_config changes.
const EngineVersion = "1.3.0"

type hashInput struct {
	EngineVersion string        `json:"engine_version"`
	Signals       SignalSummary `json:"signals"`
	Jurisdictions []string      `json:"jurisdictions"`
	Weights       Weights       `json:"weights"`
}

// InputHash fingerprints the inputs of one location calculation. Jurisdiction
// order does not matter; timestamps are never part of the digest.
func InputHash(engineVersion string, summary SignalSummary, jurisdictionIDs []string, weights Weights) string {
	ids := append([]string(nil), jurisdictionIDs...)
	sort.Strings(ids)
	if ids == nil {
		ids = []string{}
	}
	// Struct fields marshal in declaration order, so the encoding is stable.
	b, err := json.Marshal(hashInput{EngineVersion: engineVersion, Signals: summary, Jurisdictions: ids, Weights: weights})
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// JurisdictionIDs lists the ids of a set of results.
func JurisdictionIDs(scores []JurisdictionScore) []string {
	out := make([]string, 0, len(scores))
	for _, s := range scores {
		out = append(out, s.JurisdictionID)
	}
	return out
}
