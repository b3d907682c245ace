//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStubDetector(t *testing.T) {
	d, err := NewYOLODetector("yolov8n.onnx", COCOLabels, 0.25)
	require.NoError(t, err)

	_, err = d.Detect(context.Background(), []byte("frame"))
	require.ErrorIs(t, err, errNoGoCV)

	_, err = d.Annotate([]byte("frame"), nil)
	require.ErrorIs(t, err, errNoGoCV)

	_, err = OpenCamera(0)
	require.ErrorIs(t, err, errNoGoCV)
}
