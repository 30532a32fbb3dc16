package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrProductNotFound is returned when the remote lookup succeeds but the
	// barcode is not registered upstream (status discriminator 0).
	ErrProductNotFound = errors.New("product not found")

	// ErrLookupFailed is returned on transport or parse failure of the remote
	// lookup, wrapping the underlying cause.
	ErrLookupFailed = errors.New("product lookup failed")

	// ErrCacheMiss is returned when a barcode is not in the local cache.
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when the cache storage layer fails.
	// Callers treat it as a miss; it never blocks resolution.
	ErrCacheUnavailable = errors.New("cache unavailable")

	// ErrInvalidRequest is returned when request parameters are invalid.
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrInvalidServingSize is returned when a scaling target quantity is
	// zero or negative.
	ErrInvalidServingSize = errors.New("serving quantity must be greater than zero")

	// ErrNoBarcodeInFrame signals a frame with no decodable barcode. Expected
	// on most frames; never fatal, never surfaced.
	ErrNoBarcodeInFrame = errors.New("no barcode in frame")

	// ErrScanActive is returned when Start is called on a decoder whose
	// session has not been stopped.
	ErrScanActive = errors.New("scanning session already active")
)

// CameraFailure classifies fatal camera/device conditions. Each reason maps
// to distinct user-facing remediation guidance.
type CameraFailure int

const (
	CameraPermissionDenied CameraFailure = iota
	CameraNotFound
	CameraInUse
	CameraUnsupported
)

func (f CameraFailure) String() string {
	switch f {
	case CameraPermissionDenied:
		return "permission_denied"
	case CameraNotFound:
		return "not_found"
	case CameraInUse:
		return "in_use"
	case CameraUnsupported:
		return "unsupported"
	}
	return "unknown"
}

// CameraError is fatal to a scanning session. It is reported through the
// decoder's fatal callback, never the per-frame path.
type CameraError struct {
	Reason CameraFailure
	Err    error
}

func (e *CameraError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("camera unavailable (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("camera unavailable (%s)", e.Reason)
}

func (e *CameraError) Unwrap() error {
	return e.Err
}

// Guidance returns remediation text suitable for direct display.
func (e *CameraError) Guidance() string {
	switch e.Reason {
	case CameraPermissionDenied:
		return "Camera permission denied. Allow camera access in your browser or system settings, then try again."
	case CameraNotFound:
		return "No camera found on this device. Enter the barcode manually instead."
	case CameraInUse:
		return "Camera is already in use by another application. Close it and try again."
	case CameraUnsupported:
		return "Camera is not supported on this device or browser. Enter the barcode manually instead."
	}
	return "Camera access failed. Try again or enter the barcode manually."
}
