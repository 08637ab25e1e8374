// Package salary estimates the average package of a course role.
// Figures are placeholders, not market data.
package salary

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

const defaultBase = 5.0

var (
	randFunc = rand.Float64 // mockable

	// bases in lakhs per annum
	bases = map[string]float64{
		"Full Stack Developer":         8.5,
		"Data Scientist":               12,
		"Cloud Engineer":               9,
		"Security Analyst":             10.5,
		"Automation Engineer":          6,
		"IoT Developer":                7.5,
		"Digital Marketing Specialist": 5.5,
		"Technical Writer":             5,
		"HR Generalist":                5.2,
		"Instructional Designer":       6.5,
	}
)

// Base returns the base figure of role; unknown roles get 5.
func Base(role string) float64 {
	if b, ok := bases[role]; ok {
		return b
	}
	return defaultBase
}

// Format renders lakhs per annum with one decimal, e.g. "₹8.7 LPA".
func Format(lpa float64) string {
	return fmt.Sprintf("₹%.1f LPA", lpa)
}

type Estimator struct {
	delay time.Duration
}

func NewEstimator(delay time.Duration) *Estimator {
	return &Estimator{delay: delay}
}

// Estimate returns Base(role) shifted by a uniform variation in [-1, 1), after the configured delay.
// The result is discarded when ctx is done first.
func (e *Estimator) Estimate(ctx context.Context, role string) (string, error) {
	timer := time.NewTimer(e.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-timer.C:
	}

	variation := (randFunc() - 0.5) * 2
	return Format(Base(role) + variation), nil
}
