package extract

// Confidence is a streaming fold of per-line confidence scores. It retains
// only the running count, sum and minimum, so memory use is constant in the
// number of recognized lines. Average and minimum are undefined, not zero,
// until the first observation.
//
// A Confidence belongs to exactly one conversion task and is only mutated by
// the worker executing that task.
type Confidence struct {
	count   int
	sum     float64
	minimum float64
}

// Observe folds one confidence score into the running statistics. Scores are
// accepted as the engine reports them; no clamping or range validation is
// performed.
func (c *Confidence) Observe(value float64) {
	if c.count == 0 || value < c.minimum {
		c.minimum = value
	}
	c.count++
	c.sum += value
}

// Count returns the number of observed scores.
func (c *Confidence) Count() int {
	return c.count
}

// Sum returns the exact accumulated sum of all observed scores.
func (c *Confidence) Sum() float64 {
	return c.sum
}

// Average returns the mean of all observed scores. The second return value is
// false when nothing has been observed.
func (c *Confidence) Average() (float64, bool) {
	if c.count == 0 {
		return 0, false
	}
	return c.sum / float64(c.count), true
}

// Minimum returns the lowest observed score. The second return value is false
// when nothing has been observed.
func (c *Confidence) Minimum() (float64, bool) {
	if c.count == 0 {
		return 0, false
	}
	return c.minimum, true
}
