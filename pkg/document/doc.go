/*
Package document defines the wire-format model: the versioned, decoded,
immutable AST that a server delivers to describe a UI.

Several equivalent surface syntaxes collapse to one meaning at decode
time (padding shorthands, alignment string shortcuts, bare-number
dimensions). Validation aggregates every problem into a single Issues
value with per-field paths; resolution never starts on an invalid
document.
*/
package document
