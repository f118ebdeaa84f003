package action

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// SetStateParams is the parameter bag of a setState action. Value may
// carry an embedded expression, evaluated just before the write.
type SetStateParams struct {
	Path  string `mapstructure:"path"`
	Value any    `mapstructure:"value"`
}

// ToggleStateParams is the parameter bag of a toggleState action: the
// boolean at Path is flipped (absent reads as false).
type ToggleStateParams struct {
	Path string `mapstructure:"path"`
}

// ShowAlertParams is the parameter bag of a showAlert action.
type ShowAlertParams struct {
	Title   string `mapstructure:"title"`
	Message string `mapstructure:"message"`
}

// NavigateParams is the parameter bag of a navigate action.
type NavigateParams struct {
	Destination string `mapstructure:"destination"`
}

// DecodeParams maps a raw parameter bag onto a typed struct.
func DecodeParams(params map[string]any, out any) error {
	if err := mapstructure.Decode(params, out); err != nil {
		return fmt.Errorf("action: decoding params: %w", err)
	}
	return nil
}
