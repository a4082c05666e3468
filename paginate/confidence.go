package paginate

import "github.com/imagineworking4288/pagebound"

// Confidence terms. The detection method dominates, the pattern kind
// refines, and corroborating visual controls add bonuses; the sum is
// clamped to 0-100.
const (
	bonusVisualControls = 15
	bonusMaxPageKnown   = 10
	bonusNextControl    = 10
)

// Score computes a pattern's confidence from how it was found, what
// kind of pattern it is, and what the page's visible controls
// corroborate.
func Score(p *pagebound.Pattern, vc *pagebound.VisualControls) int {
	if p == nil {
		return 0
	}
	score := methodScore(p.Method) + kindScore(p.Kind)
	if vc != nil && (vc.HasContainer || vc.HasNext || len(vc.PageNumbers) > 0) {
		score += bonusVisualControls
	}
	if (vc != nil && vc.MaxPage > 0) || p.MaxPageHint > 0 {
		score += bonusMaxPageKnown
	}
	if vc != nil && vc.HasNext {
		score += bonusNextControl
	}
	return clampScore(score)
}

// Overall folds the boundary-search outcome into the final confidence:
// a confirmed boundary earns trust, an unconfirmed one costs it, and a
// capped search costs more because the reported count is only a floor.
func Overall(patternScore int, confirmed, capped bool) int {
	score := patternScore
	if confirmed {
		score += 10
	} else {
		score -= 10
	}
	if capped {
		score -= 15
	}
	return clampScore(score)
}

func methodScore(m pagebound.Method) int {
	switch m {
	case pagebound.MethodManual:
		return 40
	case pagebound.MethodCache:
		return 35
	case pagebound.MethodURLParameter:
		return 30
	case pagebound.MethodNavigation:
		return 25
	case pagebound.MethodScrollHeuristic:
		return 20
	case pagebound.MethodURLAnalysis:
		return 15
	}
	return 0
}

func kindScore(k pagebound.Kind) int {
	switch k {
	case pagebound.KindParameter, pagebound.KindPath:
		return 20
	case pagebound.KindOffset:
		return 12
	case pagebound.KindInfiniteScroll:
		return 10
	case pagebound.KindCursor:
		return 5
	}
	return 0
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
