package sensor

import "time"

// DefaultAveragePoints is the rolling-average window used by all current
// devices. Five points trades responsiveness against smoothing; sensors that
// sample every few seconds settle within half a minute.
const DefaultAveragePoints = 5

// Value constrains the numeric types an Accumulator can hold.
type Value interface {
	~int | ~int16 | ~int32 | ~int64 | ~uint16 | ~uint32 | ~float32 | ~float64
}

// Accumulator tracks a reading over time: the most recent value, a rolling
// average over the last N samples, the sample count, and the age of the most
// recent sample.
//
// Samples are stored in a fixed ring; recording the N+1th sample overwrites
// the oldest. The accumulator is never reset — old data simply ages out of
// the window. Before the first sample, Last and Average report no value.
type Accumulator[T Value] struct {
	last    T
	ring    []T
	cursor  int
	count   int
	sampled time.Time

	// now is swapped for a fake clock in tests.
	now func() time.Time
}

// NewAccumulator creates an accumulator averaging over the last points
// samples. points must be at least 1.
func NewAccumulator[T Value](points int) *Accumulator[T] {
	if points < 1 {
		points = 1
	}
	return &Accumulator[T]{
		ring: make([]T, points),
		now:  time.Now,
	}
}

// Record stores a new sample. It never fails: the last value is replaced,
// the sample enters the ring (evicting the oldest once the ring is full),
// and the sample timestamp is set to now.
func (a *Accumulator[T]) Record(value T) {
	a.last = value
	a.ring[a.cursor] = value
	a.cursor = (a.cursor + 1) % len(a.ring)
	if a.count < len(a.ring) {
		a.count++
	}
	a.sampled = a.now()
}

// Average returns the arithmetic mean of the stored samples. The mean is
// computed in floating point even for integer accumulators to avoid
// truncation bias. The second return is false when no sample has been
// recorded.
func (a *Accumulator[T]) Average() (float64, bool) {
	if a.count == 0 {
		return 0, false
	}
	var sum float64
	for _, v := range a.ring[:a.count] {
		sum += float64(v)
	}
	return sum / float64(a.count), true
}

// Last returns the most recent sample. The second return is false when no
// sample has been recorded.
func (a *Accumulator[T]) Last() (T, bool) {
	var zero T
	if a.count == 0 {
		return zero, false
	}
	return a.last, true
}

// SampleCount returns the number of samples currently in the window,
// at most the configured point count.
func (a *Accumulator[T]) SampleCount() int {
	return a.count
}

// SampleAge returns the time elapsed since the most recent sample.
// Only meaningful when HasAccumulation reports true.
func (a *Accumulator[T]) SampleAge() time.Duration {
	if a.count == 0 {
		return 0
	}
	return a.now().Sub(a.sampled)
}

// HasAccumulation reports whether at least one sample has been recorded.
func (a *Accumulator[T]) HasAccumulation() bool {
	return a.count > 0
}

// State renders the accumulator in the wire shape shared by every published
// quantity: average, last, sample_count and sample_age_ms.
func (a *Accumulator[T]) State() map[string]any {
	state := make(map[string]any, 4)
	if avg, ok := a.Average(); ok {
		state["average"] = avg
	}
	if last, ok := a.Last(); ok {
		state["last"] = last
	}
	state["sample_count"] = a.count
	state["sample_age_ms"] = a.SampleAge().Milliseconds()
	return state
}
