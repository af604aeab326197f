package service

// ScoreCalculatorService turns point or lesson counts into 0-100 percentages.
// Quiz scores and enrollment progress use the same rule.
type ScoreCalculatorService interface {
	ToPercentage(earned, total int64) float64
	IsPassing(score, passPercentage float64) bool
}

type scoreCalculatorServiceImpl struct{}

func NewScoreCalculatorService() ScoreCalculatorService {
	return &scoreCalculatorServiceImpl{}
}

// ToPercentage returns earned/total*100, or 0 when total is not positive.
func (s *scoreCalculatorServiceImpl) ToPercentage(earned, total int64) float64 {
	if total <= 0 || earned <= 0 {
		return 0
	}
	pct := float64(earned) / float64(total) * 100
	if pct > 100 {
		pct = 100
	}
	return pct
}

func (s *scoreCalculatorServiceImpl) IsPassing(score, passPercentage float64) bool {
	return score >= passPercentage
}
