// Package analysis post-processes recorded runs.
//
//   - [PowerSpectrum]: one-sided spectrum of a series such as the mean height
//   - [Crossings], [MeanPeriod]: threshold crossings of a series
//   - [TrajectoryToASCII]: character plot of the centroid path
//   - [MeasureDivergence]: sensitivity of a run to a small displacement
package analysis
