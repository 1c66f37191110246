// Package tui holds the terminal UI used to choose a stored credential.
//
// The picker lives in the picker subpackage; keymap and styles are shared
// building blocks.
package tui
