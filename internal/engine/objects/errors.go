package objects

import "errors"

var (
	// ErrCapacityExceeded is returned by Create when a group is full.
	ErrCapacityExceeded = errors.New("object group capacity exceeded")
	// ErrInvalidMesh is returned for unknown mesh indices and unusable geometry.
	ErrInvalidMesh = errors.New("invalid mesh")
	// ErrInvalidCapacity is returned when registering a mesh with capacity < 1.
	ErrInvalidCapacity = errors.New("invalid capacity")
	// ErrStaleHandle is returned when a handle no longer names a live object.
	ErrStaleHandle = errors.New("stale object handle")
	// ErrFinalized is returned when registering after FinalizeObjects.
	ErrFinalized = errors.New("objects already finalized")
	// ErrNotFinalized is returned when using instances before FinalizeObjects.
	ErrNotFinalized = errors.New("objects not finalized")
)
