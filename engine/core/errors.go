package core

import (
	"errors"
)

var (
	// ErrPipelineDown is returned once the worker's result channel closed
	// without a shutdown being requested. Requests are not resent.
	ErrPipelineDown = errors.New("voxel pipeline is down")
	// ErrWorkerStopped is returned when sending to a worker that already terminated.
	ErrWorkerStopped = errors.New("voxel worker stopped")
	// ErrRequestQueueFull is returned by non-blocking sends when the request queue has no room.
	ErrRequestQueueFull = errors.New("voxel request queue is full")
	// ErrDuplicateRequest reports a chunk coordinate registered twice.
	ErrDuplicateRequest = errors.New("chunk already requested")
	ErrUnknown          = errors.New("unknown")
)
