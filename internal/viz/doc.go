// Package viz renders plot figures in the terminal.
//
//   - [Canvas]: Braille-based pixel canvas for direction fields and curves
//   - [RenderFigure], [RenderAxes]: framed panels with lipgloss, or
//     asciigraph charts for panels that hold only curves on a shared grid
//   - [Viewer]: a Bubble Tea program that pages through a finished figure
//
// # Key Bindings
//
//	←/→ - Previous/next panel
//	A   - Toggle all panels
//	T   - Cycle color themes
//	?   - Show help
//	Q   - Quit
package viz
