//go:build gocv
// +build gocv

package vision

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

// Camera захват кадров с веб-камеры.
type Camera struct {
	capture *gocv.VideoCapture
	frame   gocv.Mat
}

// OpenCamera открывает устройство по индексу.
func OpenCamera(deviceID int) (*Camera, error) {
	capture, err := gocv.OpenVideoCapture(deviceID)
	if err != nil {
		return nil, fmt.Errorf("open camera %d: %w", deviceID, err)
	}
	return &Camera{capture: capture, frame: gocv.NewMat()}, nil
}

// Read снимает кадр и возвращает его в JPEG.
func (c *Camera) Read() ([]byte, error) {
	if ok := c.capture.Read(&c.frame); !ok || c.frame.Empty() {
		return nil, errors.New("camera returned no frame")
	}
	return encodeJPEG(c.frame)
}

// Close освобождает устройство.
func (c *Camera) Close() error {
	c.frame.Close()
	return c.capture.Close()
}
