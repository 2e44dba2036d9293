// Package key provides key event types and parsing for binds.
//
// This package defines the fundamental types for representing keyboard input:
//
//   - Key: Identifies a keyboard key (special keys, function keys, or runes)
//   - Modifier: Represents modifier keys (Ctrl, Alt, Shift, Meta)
//   - Event: A single key press with modifiers and timestamp
//   - Sequence: A series of key events forming a chord
//
// # Key Specifications
//
// A bind is written as a continuous sequence of keys:
//
//   - Plain characters: "q", "gg", "+"
//   - Named keys: "<Left>", "<Space>", "<LeftSquareBracket>", "<Equals>"
//   - With modifiers: "<Shift+g>", "<Ctrl+x>", "<C-x>"
//
// Shift applied to a character is folded into the character itself, so
// "<Shift+g>" and "G" describe the same event.
package key
