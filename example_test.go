package scals_test

import (
	"fmt"
	"log"

	"github.com/scalskit/scals"
	"github.com/scalskit/scals/pkg/document"
	"github.com/scalskit/scals/pkg/ir"
	"github.com/scalskit/scals/pkg/state"
)

// ExampleNew demonstrates resolving a small document and reacting to a
// state write. Writes trigger incremental re-resolution; Flush makes
// the update visible synchronously.
func ExampleNew() {
	// 1. Decode a document: state, styles, and a component tree.
	doc, err := document.Parse([]byte(`{
		"version": "1.0.0",
		"state": {"name": "world"},
		"root": {
			"kind": "container",
			"children": [
				{"kind": "text", "id": "greeting", "content": "Hello, ${name}!"}
			]
		}
	}`))
	if err != nil {
		log.Fatal(err)
	}

	// 2. Create the engine. The initial pass runs before New returns.
	engine, err := scals.New(doc)
	if err != nil {
		log.Fatal(err)
	}
	defer engine.Close()

	fmt.Println(greetingText(engine.Tree()))

	// 3. Write state; only the dependent subtree re-resolves.
	engine.State().Set("name", state.String("gopher"))
	engine.Flush()

	fmt.Println(greetingText(engine.Tree()))
	// Output:
	// Hello, world!
	// Hello, gopher!
}

func greetingText(tree *ir.Tree) string {
	root := tree.Root.(*ir.Container)
	return root.Children[0].(*ir.Text).Content
}
