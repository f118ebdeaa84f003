package action

import (
	"github.com/scalskit/scals/pkg/document"
	"github.com/scalskit/scals/pkg/ir"
)

// ResolveDefinition maps a wire action to its typed definition. The
// kind is resolved immediately; parameters stay as decoded, since
// embedded expressions evaluate at invocation time (a sequence step
// must see state written by earlier steps).
func ResolveDefinition(a document.Action) *ir.ActionDefinition {
	if a == nil {
		return nil
	}
	def := &ir.ActionDefinition{Kind: ir.KnownActionKind(a.Type())}
	if def.Kind == ir.ActionCustom {
		def.Name = a.Type()
	}

	for k, v := range a {
		if k == "type" || k == "steps" {
			continue
		}
		if def.Params == nil {
			def.Params = make(map[string]any)
		}
		def.Params[k] = v
	}

	if def.Kind == ir.ActionSequence {
		steps, _ := a["steps"].([]any)
		for _, raw := range steps {
			m, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			if step := ResolveDefinition(document.Action(m)); step != nil {
				def.Steps = append(def.Steps, *step)
			}
		}
	}
	return def
}

// ResolveRef looks an action up in the document's named table.
func ResolveRef(doc *document.Document, name string) (*ir.ActionDefinition, bool) {
	a, ok := doc.Actions[name]
	if !ok {
		return nil, false
	}
	return ResolveDefinition(a), true
}
