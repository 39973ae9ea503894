// Package viz renders swing runs in the terminal with Bubble Tea.
//
//   - [App]: parameter form followed by playback, driven by a session
//   - [Player]: frame-by-frame playback of a finished series
//   - [Canvas]: Braille-based pixel canvas
//
// # Key Bindings
//
//	Space - Pause/Resume playback
//	.     - Step one frame while paused
//	F     - Toggle force vectors
//	+/-   - Scale force vectors by 1.2
//	R     - Back to the parameter form
//	Q     - Quit
package viz
