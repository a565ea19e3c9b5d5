package domain

import "fmt"

// creditCosts is the per-video price in credits by output resolution.
var creditCosts = map[Resolution]int{
	Resolution720p:  10,
	Resolution1080p: 15,
	Resolution4K:    20,
}

// CreditCost returns the deterministic price of count videos at resolution res.
func CreditCost(res Resolution, count int) (int, error) {
	unit, ok := creditCosts[res]
	if !ok {
		return 0, fmt.Errorf("%w: unsupported resolution %q", ErrInvalidRequest, res)
	}
	if count < 1 {
		return 0, fmt.Errorf("%w: count must be positive", ErrInvalidRequest)
	}
	return unit * count, nil
}

// CheapestCost is the lowest price of a single video.
func CheapestCost() int {
	lowest := 0
	for _, c := range creditCosts {
		if lowest == 0 || c < lowest {
			lowest = c
		}
	}
	return lowest
}
