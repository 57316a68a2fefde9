// Package components groups the built-in widgets.
package components

import (
	"errors"

	"github.com/drake/minisong/ui/tui/components/albumart"
	"github.com/drake/minisong/ui/tui/components/block"
	"github.com/drake/minisong/ui/tui/components/keyhelp"
	"github.com/drake/minisong/ui/tui/components/label"
	"github.com/drake/minisong/ui/tui/components/progress"
	"github.com/drake/minisong/ui/tui/components/throbber"
	"github.com/drake/minisong/ui/tui/widget"
)

// RegisterAll adds the draw operation of every built-in widget. It keeps
// going past failures and returns them joined.
func RegisterAll(reg *widget.Registry) error {
	var errs []error
	for _, register := range []func(*widget.Registry) error{
		block.Register,
		label.Register,
		throbber.Register,
		progress.Register,
		albumart.Register,
		keyhelp.Register,
	} {
		if err := register(reg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
