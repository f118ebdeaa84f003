/*
Package state implements the path-addressed mutable value store that
documents bind against.

Values are a closed tagged union of the JSON shapes (null, bool, int,
double, string, array, object) plus an explicit Absent, so that "the
path has no value" stays distinguishable from "the path is null".

The store is the one piece of the pipeline that is safe to touch from
any goroutine: every mutation runs under an internal lock, and change
notifications are delivered synchronously on the writer's goroutine.
Mutating the store from inside one of its own observer callbacks is a
programmer error and panics.
*/
package state
