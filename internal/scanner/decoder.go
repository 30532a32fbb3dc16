// Package scanner turns a stream of video frames into at most one barcode
// report per scanning session. Frame decoding itself is delegated to a
// SymbolReader; this package owns the session contract: ignore frames with
// no barcode, surface genuine per-frame errors without stopping, report
// camera failures fatally, and suppress every decode after the first hit
// until the session is torn down and restarted.
package scanner

import (
	"context"
	"errors"
	"image"
	"sync"
	"time"

	"github.com/nutriscan/backend/internal/domain"
)

// FrameSource supplies video frames from a capture device. NextFrame blocks
// until a frame is available; the first frame becoming available is the
// caller's readiness point. Open-time and read-time device failures should be
// returned as *domain.CameraError.
type FrameSource interface {
	NextFrame(ctx context.Context) (image.Image, error)
	Close() error
}

// SymbolReader decodes a single frame into a barcode payload. A frame with
// no decodable barcode returns domain.ErrNoBarcodeInFrame.
type SymbolReader interface {
	Decode(img image.Image) (string, error)
}

// Decoder runs one scanning session at a time over a FrameSource.
type Decoder struct {
	reader SymbolReader

	// SampleInterval optionally paces frame consumption; zero means the
	// source's own delivery rate drives sampling.
	SampleInterval time.Duration

	mu       sync.Mutex
	active   bool
	cancel   context.CancelFunc
	done     chan struct{}
	source   FrameSource
	reported bool
}

// NewDecoder creates a decoder. A nil reader selects the default
// zxing-backed multi-format EAN/UPC reader.
func NewDecoder(reader SymbolReader) *Decoder {
	if reader == nil {
		reader = NewZXingReader()
	}
	return &Decoder{reader: reader}
}

// Start begins sampling frames from source. onBarcode fires at most once per
// session, on the first successful decode; subsequent hits are suppressed
// until Stop and a fresh Start. onFrameError receives non-fatal per-frame
// decode errors; "no barcode in this frame" is not among them and is
// silently skipped. onFatal receives camera/device failures that end the
// session. Starting while a session is active returns ErrScanActive.
func (d *Decoder) Start(ctx context.Context, source FrameSource, onBarcode func(string), onFrameError func(error), onFatal func(error)) error {
	d.mu.Lock()
	if d.active {
		d.mu.Unlock()
		return domain.ErrScanActive
	}

	ctx, cancel := context.WithCancel(ctx)
	d.active = true
	d.cancel = cancel
	d.done = make(chan struct{})
	d.source = source
	d.reported = false
	done := d.done
	d.mu.Unlock()

	go func() {
		defer close(done)
		d.sample(ctx, source, onBarcode, onFrameError, onFatal)
	}()

	return nil
}

func (d *Decoder) sample(ctx context.Context, source FrameSource, onBarcode func(string), onFrameError func(error), onFatal func(error)) {
	for {
		frame, err := source.NextFrame(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			var camErr *domain.CameraError
			if errors.As(err, &camErr) {
				onFatal(camErr)
			} else {
				onFatal(err)
			}
			return
		}

		text, err := d.reader.Decode(frame)
		switch {
		case err == nil:
			d.mu.Lock()
			first := !d.reported
			d.reported = true
			d.mu.Unlock()
			if first && onBarcode != nil {
				onBarcode(text)
			}
		case errors.Is(err, domain.ErrNoBarcodeInFrame):
			// Expected on most frames; keep sampling.
		default:
			if onFrameError != nil {
				onFrameError(err)
			}
		}

		if d.SampleInterval > 0 {
			select {
			case <-time.After(d.SampleInterval):
			case <-ctx.Done():
				return
			}
		}
	}
}

// Stop halts sampling and releases the capture source. Idempotent: safe to
// call multiple times and from any teardown path, however the session ended.
func (d *Decoder) Stop() {
	d.mu.Lock()
	if !d.active {
		d.mu.Unlock()
		return
	}
	d.active = false
	cancel := d.cancel
	done := d.done
	source := d.source
	d.cancel = nil
	d.done = nil
	d.source = nil
	d.mu.Unlock()

	cancel()
	<-done
	source.Close()
}
