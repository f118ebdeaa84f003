package ir

// ActionKind is the closed enumeration of built-in action kinds, plus an
// explicit custom variant carrying the host-defined name.
type ActionKind string

const (
	ActionDismiss     ActionKind = "dismiss"
	ActionSetState    ActionKind = "setState"
	ActionToggleState ActionKind = "toggleState"
	ActionShowAlert   ActionKind = "showAlert"
	ActionNavigate    ActionKind = "navigate"
	ActionSequence    ActionKind = "sequence"
	ActionCustom      ActionKind = "custom"
)

// KnownActionKind maps a wire action type to the closed enumeration.
// Unknown types map to ActionCustom.
func KnownActionKind(t string) ActionKind {
	switch ActionKind(t) {
	case ActionDismiss, ActionSetState, ActionToggleState, ActionShowAlert,
		ActionNavigate, ActionSequence:
		return ActionKind(t)
	}
	return ActionCustom
}

// ActionDefinition is the resolved form of a document action: the kind
// is typed, the parameter bag is carried as decoded. Embedded
// expressions inside Params are evaluated when the action runs, so that
// a sequence step sees state written by earlier steps.
type ActionDefinition struct {
	Kind ActionKind `json:"kind"`

	// Name is the wire type for custom kinds ("" for built-ins).
	Name string `json:"name,omitempty"`

	// Params is the parameter bag without the "type" discriminator.
	Params map[string]any `json:"params,omitempty"`

	// Steps is set for sequences. Each step's kind is resolved; its
	// params resolve lazily, just before the step runs.
	Steps []ActionDefinition `json:"steps,omitempty"`
}
