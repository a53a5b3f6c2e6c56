package eval

import (
	"fmt"

	"github.com/loopworks/flowkit/log"
)

// CheckThreshold reports whether the run's aggregate score for the given
// evaluator reaches the threshold. Used as a CI gate.
func CheckThreshold(report *Report, evaluator string, threshold float64) (bool, error) {
	score, err := report.Score(evaluator)
	if err != nil {
		return false, err
	}
	if score >= threshold {
		log.Infof("evaluation %s: score %.2f above threshold %.2f for %s", report.Name, score, threshold, evaluator)
		return true, nil
	}
	log.Warnf("evaluation %s: score %.2f below threshold %.2f for %s", report.Name, score, threshold, evaluator)
	return false, nil
}

// CheckImprovement reports whether the latest run matches or beats the
// baseline run for the given evaluator. A nil baseline passes: there is
// nothing to regress against.
func CheckImprovement(latest, baseline *Report, evaluator string) (bool, error) {
	if latest == nil {
		return false, fmt.Errorf("no report to check")
	}
	if baseline == nil {
		log.Warnf("evaluation %s: no baseline to compare with", latest.Name)
		return true, nil
	}

	latestScore, err := latest.Score(evaluator)
	if err != nil {
		return false, err
	}
	baselineScore, err := baseline.Score(evaluator)
	if err != nil {
		return false, err
	}

	diff := latestScore - baselineScore
	if diff >= 0 {
		log.Infof("evaluation %s: improvement of %.2f for %s", latest.Name, diff, evaluator)
		return true, nil
	}
	log.Warnf("evaluation %s: regression of %.2f for %s", latest.Name, diff, evaluator)
	return false, nil
}
