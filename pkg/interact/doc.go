// Package interact implements hover inspection of a laid-out RRG.
//
// A [Machine] holds a single hover slot. Pointer events move it between
// [Idle] and [Hovering]; entering a second marker while one is hovered hands
// the slot over directly, so at most one sector is ever emphasized.
//
// [Render] turns a layout plus the machine's state into a [View]: the
// emphasized marker, its trail ending at the resolved marker position, and a
// tooltip anchored at the pointer. Rendering never modifies the layout.
//
// A Machine is not safe for concurrent use. Each event source (a browser
// session, a terminal UI) owns its own machine.
package interact
