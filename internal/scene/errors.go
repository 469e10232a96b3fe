package scene

import "errors"

var (
	// ErrLightLimit is returned when a light would exceed lighting.MaxLights.
	ErrLightLimit = errors.New("scene: light limit reached")
	// ErrUnknownKind is returned for an entity kind outside the known set.
	ErrUnknownKind = errors.New("scene: unknown entity kind")
	// ErrInvalidHandle is returned when a handle no longer names an entity.
	ErrInvalidHandle = errors.New("scene: invalid entity handle")
	// ErrMalformedScene is returned when a scene file is not a valid document.
	ErrMalformedScene = errors.New("scene: malformed scene file")
)
