package watch

import "time"

const (
	// DefaultCeiling bounds the poll interval when no ceiling is
	// configured.
	DefaultCeiling = 5 * time.Second

	fastStep   = 250 * time.Millisecond
	fastCutoff = 1 * time.Second
	slowStep   = 2 * time.Second
)

// Ladder computes the sequence of wait intervals between poll attempts. The
// sequence front-loads fast polling so quick operations resolve promptly,
// then backs off to a fixed slow cadence that bounds the query volume of
// long-running ones: below one second it climbs in 250ms steps, and from one
// second on it repeats each interval once before stepping up by two seconds,
// until it reaches the ceiling.
//
// The returned sequence is non-decreasing and its last element equals the
// ceiling; pollers repeat that last element once the sequence is exhausted.
func Ladder(initial time.Duration, ceiling time.Duration) []time.Duration {
	if ceiling <= 0 {
		ceiling = DefaultCeiling
	}
	if initial <= 0 {
		initial = fastStep
	}
	if initial > ceiling {
		initial = ceiling
	}

	rungs := []time.Duration{initial}
	current := initial

	for current < fastCutoff && current < ceiling {
		current += fastStep
		if current > fastCutoff {
			current = fastCutoff
		}
		if current > ceiling {
			current = ceiling
		}
		rungs = append(rungs, current)
	}

	for current < ceiling {
		rungs = append(rungs, current)

		current += slowStep
		if current > ceiling {
			current = ceiling
		}
		rungs = append(rungs, current)
	}

	return rungs
}
