// Package sim is the swing simulation engine.
//
// [Simulate] integrates a [Parameters] set with a fixed timestep (velocity
// first, then angle) and returns the complete [TimeSeries] in one call:
//
//	ts, err := sim.Simulate(sim.DefaultParameters())
//	if err != nil {
//	    return err
//	}
//	if ts.Stopped {
//	    fmt.Printf("at rest after %.2fs\n", ts.StoppingTime)
//	}
//
// A run ends when Duration is reached or when MaxConsecutiveRest samples with
// angular speed below RestThreshold have been seen. By default those samples
// are accumulated over the whole run; [WithRestMode] with [RestConsecutive]
// requires them to be contiguous.
//
// The returned series is never mutated afterwards and may be read from any
// number of goroutines.
package sim
