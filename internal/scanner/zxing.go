package scanner

import (
	"fmt"
	"image"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"

	"github.com/nutriscan/backend/internal/domain"
)

// ZXingReader decodes EAN/UPC product barcodes with the gozxing library.
// Not safe for concurrent use; each scanning session gets its own reader.
type ZXingReader struct {
	reader gozxing.Reader
}

// NewZXingReader creates a multi-format EAN/UPC reader covering EAN-8,
// EAN-13, UPC-A and UPC-E, the symbologies found on food packaging.
func NewZXingReader() *ZXingReader {
	return &ZXingReader{
		reader: oned.NewMultiFormatUPCEANReader(nil),
	}
}

// Decode attempts to read a barcode from one frame. A frame without a
// barcode returns domain.ErrNoBarcodeInFrame; anything else is a genuine
// decode error.
func (r *ZXingReader) Decode(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("prepare frame: %w", err)
	}

	result, err := r.reader.Decode(bmp, nil)
	if err != nil {
		if _, ok := err.(gozxing.NotFoundException); ok {
			return "", domain.ErrNoBarcodeInFrame
		}
		return "", fmt.Errorf("decode frame: %w", err)
	}

	return result.GetText(), nil
}
