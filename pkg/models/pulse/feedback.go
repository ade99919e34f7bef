package pulse

import (
	"fmt"
)

// Satisfaction level of a feedback
type Satisfaction string

const (
	VerySatisfied    Satisfaction = "Very Satisfied"
	Satisfied        Satisfaction = "Satisfied"
	Neutral          Satisfaction = "Neutral"
	Dissatisfied     Satisfaction = "Dissatisfied"
	VeryDissatisfied Satisfaction = "Very Dissatisfied"

	DefaultSatisfaction = Satisfied
)

// SatisfactionLevels in display order
var SatisfactionLevels = []Satisfaction{
	VerySatisfied, Satisfied, Neutral, Dissatisfied, VeryDissatisfied,
}

// ParseSatisfaction returns the default for empty input
func ParseSatisfaction(s string) (Satisfaction, error) {
	if len(s) == 0 {
		return DefaultSatisfaction, nil
	}
	for _, lv := range SatisfactionLevels {
		if string(lv) == s {
			return lv, nil
		}
	}
	return "", fmt.Errorf("invalid satisfaction %q", s)
}

// ComposeFeedback builds the single message sent to the survey endpoint
func ComposeFeedback(level Satisfaction, comments string) string {
	return fmt.Sprintf("Satisfaction: %s. Comments: %s", level, comments)
}
