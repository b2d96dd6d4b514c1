// Package tui is the terminal front end: start or join a game, then play it
// with a five-cell input and a colored guess history.
package tui
