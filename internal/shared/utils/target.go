package utils

import (
	"errors"

	"github.com/GriffinCanCode/DeskOS/backend/internal/shared/id"
	"github.com/GriffinCanCode/DeskOS/backend/internal/shared/types"
)

// ErrAmbiguousTarget is returned when both an app id and a spec are given
var ErrAmbiguousTarget = errors.New("app_id and spec are mutually exclusive")

// OpenTarget validates an open request and builds its target. A spec
// without an id gets a generated window id.
func OpenTarget(appID string, spec *types.InstanceSpec) (types.Target, error) {
	switch {
	case appID != "" && spec != nil:
		return types.Target{}, ErrAmbiguousTarget
	case spec != nil:
		s := *spec
		if s.ID == "" {
			s.ID = id.NewWindowID().String()
		}
		if err := ValidateInstanceSpec(s); err != nil {
			return types.Target{}, err
		}
		return types.SpecTarget(s), nil
	default:
		if err := ValidateID(appID, "app_id", true); err != nil {
			return types.Target{}, err
		}
		return types.AppTarget(appID), nil
	}
}
