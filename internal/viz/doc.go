// Package viz renders diffusion fields in the terminal.
//
//   - [Heatmap]: shaded, colour-ramped block per cell
//   - [Profile]: line plot of a row, a column or a run history
//   - [LiveModel]: Bubble Tea program that steps a grid on every tick
//   - Theme selection with 4 built-in colour ramps
//
// # Key Bindings
//
//	Space - Pause/Resume stepping
//	+ / - - Double/halve steps per frame
//	R     - Rebuild the grid from its configuration
//	T     - Cycle color themes
//	?     - Show help overlay
//	Q     - Quit
package viz
