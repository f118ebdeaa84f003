/*
Package ir defines the render tree: the canonical, fully resolved
intermediate representation handed to renderers.

One concrete node type exists per UI primitive. Every property is
concrete — style inheritance has been folded, padding shorthands
canonicalized to four edges, expressions evaluated — so renderers never
merge, compute, or default anything.
*/
package ir
