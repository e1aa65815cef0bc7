package model

import "fmt"

type Strategy string

const (
	Blackbox        Strategy = "blackbox"
	Greybox         Strategy = "greybox"
	DirectedGreybox Strategy = "directed_greybox"
)

// Baseline is the strategy every other strategy is compared against.
const Baseline = Blackbox

// Strategies returns all strategies in report column order.
func Strategies() []Strategy {
	return []Strategy{Blackbox, Greybox, DirectedGreybox}
}

// Dir is the name of the directory holding the strategy's result files
// inside an extracted archive.
func (s Strategy) Dir() string {
	return string(s) + "_fuzzing"
}

func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case Blackbox, Greybox, DirectedGreybox:
		return Strategy(s), nil
	}
	return "", fmt.Errorf("unknown strategy %q", s)
}
