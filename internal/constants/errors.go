package constants

import "errors"

var ErrUnknownCapability = errors.New("Capability not found")
