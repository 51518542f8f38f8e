package searcher

import "math"

// ucb1 = rewards/visits + sqrt(c^2*ln(N)/visits)
func ucb1(rewards float64, visits int, c2LnN float64) float64 {
	// Prioritize unexplored nodes
	if visits == 0 {
		return math.Inf(1)
	}

	return rewards/float64(visits) + math.Sqrt(c2LnN/float64(visits))
}

func normalizer(exploration float64, parentVisits int) float64 {
	if parentVisits == 0 {
		panic("node has children but no visits")
	}
	return exploration * exploration * math.Log(float64(parentVisits))
}
