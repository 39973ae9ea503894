// Package analysis summarises a simulated swing series.
//
//   - [PowerSpectrum] and [DominantPeriod]: FFT of the angle signal
//   - [ZeroCrossingPeriod]: period from the spacing of sign changes
//   - [PhasePortrait] and [PhasePortraitToASCII]: angle against velocity
//
// The FFT estimate is limited by the bin width 1/(N·dt) of the padded
// signal, so short runs give a coarse period.
package analysis
