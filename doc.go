/*
Package scals is a server-driven UI resolution engine: it turns
declarative JSON/YAML documents into fully resolved render trees that
platform renderers consume without further merging, defaulting, or
arithmetic.

It separates the document (what the server authored) from the state
(what the user did) and the render tree (what the screen shows). The
engine manages style inheritance, expression evaluation, dependency
tracking, and incremental re-resolution, while your application (the
"Host") manages presentation and external effects. This Hexagonal
Architecture allows Scals to be embedded in any interface: native
renderers, HTTP preview servers, or terminal tooling.

# Key Features

  - Deterministic Resolution: the same document and state always yield
    the same render tree.
  - Style Inheritance: single-parent chains with independent composite
    sub-fields and an explicit clearing sentinel.
  - Reactive Updates: state writes re-resolve exactly the subtrees that
    read the changed paths, splicing fresh IR in place.
  - Hexagonal Architecture: renderers, action hosts, and snapshot
    stores plug in through ports.

# Usage

Decode a document and create an engine. State writes from any goroutine
re-resolve the affected subtrees.

	package main

	import (
		"context"
		"log"

		"github.com/scalskit/scals"
		"github.com/scalskit/scals/pkg/document"
		"github.com/scalskit/scals/pkg/state"
	)

	func main() {
		doc, err := document.Parse(raw)
		if err != nil {
			log.Fatal(err)
		}

		eng, err := scals.New(doc)
		if err != nil {
			log.Fatal(err)
		}
		defer eng.Close()

		// Invoke a named action from the document.
		if _, err := eng.ExecuteRef(context.Background(), "increment"); err != nil {
			log.Fatal(err)
		}

		// Or write state directly.
		eng.State().Set("user.name", state.String("Ada"))
		eng.Flush()

		_ = eng.Tree() // hand to a renderer
	}
*/
package scals
