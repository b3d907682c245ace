//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"errors"

	"cook-bot/internal/domain/entity"
)

var errNoGoCV = errors.New("gocv build tag is not enabled")

// YOLODetector детектор-заглушка (без OpenCV).
type YOLODetector struct {
	InputSize     int
	MinConfidence float32
	NMSThreshold  float32

	labels []string
}

// NewYOLODetector создаёт заглушку; модель не загружается.
func NewYOLODetector(modelPath string, labels []string, minConfidence float32) (*YOLODetector, error) {
	_ = modelPath
	return &YOLODetector{
		InputSize:     640,
		MinConfidence: minConfidence,
		NMSThreshold:  0.45,
		labels:        labels,
	}, nil
}

// Detect возвращает ошибку, если сборка без тега gocv.
func (d *YOLODetector) Detect(ctx context.Context, frame []byte) ([]entity.DetectedRegion, error) {
	_ = ctx
	_ = frame
	return nil, errNoGoCV
}

// Annotate возвращает ошибку, если сборка без тега gocv.
func (d *YOLODetector) Annotate(frame []byte, regions []entity.DetectedRegion) ([]byte, error) {
	_ = frame
	_ = regions
	return nil, errNoGoCV
}

// Close ничего не делает.
func (d *YOLODetector) Close() error {
	return nil
}

// Camera камера-заглушка.
type Camera struct{}

// OpenCamera возвращает ошибку, если сборка без тега gocv.
func OpenCamera(deviceID int) (*Camera, error) {
	_ = deviceID
	return nil, errNoGoCV
}

// Read возвращает ошибку, если сборка без тега gocv.
func (c *Camera) Read() ([]byte, error) {
	return nil, errNoGoCV
}

// Close ничего не делает.
func (c *Camera) Close() error {
	return nil
}
