// Package listview provides a small cursor-driven list component for Bubble Tea.
//
// The list owns a cursor over a slice of items and renders only the rows that
// fit its height, scrolling to keep the cursor visible. Rendering is delegated
// to a RenderFunc so callers control styling. Key features:
//   - Keyboard navigation (up/down, j/k, home/end)
//   - Cursor clamping when the item set changes
//   - Windowed rendering sized to the viewport height
package listview
