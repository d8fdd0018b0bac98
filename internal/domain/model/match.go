package model

// Phase records which matcher stage produced a pair.
type Phase string

// Matcher phases in the order they run.
const (
	PhaseHighQuality Phase = "HIGH_QUALITY"
	PhaseAggressive  Phase = "AGGRESSIVE"
	PhaseForced      Phase = "FORCED"
)

// MatchPair links one FPEDIA record (side A) to one FSTATS record (side B).
type MatchPair struct {
	SourceAIndex int
	SourceBIndex int
	Score        float64 // in [0,1]
	Phase        Phase
}

// Quality buckets a similarity score into a human label.
func Quality(score float64) string {
	switch {
	case score >= 0.9:
		return "Eccellente"
	case score >= 0.7:
		return "Buono"
	case score >= 0.5:
		return "Discreto"
	case score >= 0.1:
		return "Incerto"
	default:
		return "Forzato"
	}
}
