//go:build gocv
// +build gocv

package vision

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"sync"

	"gocv.io/x/gocv"

	"cook-bot/internal/domain/entity"
)

// YOLODetector детектор объектов на базе YOLOv8 в формате ONNX.
type YOLODetector struct {
	InputSize     int
	MinConfidence float32
	NMSThreshold  float32

	labels []string
	net    gocv.Net
	mu     sync.Mutex // gocv.Net нельзя вызывать из нескольких горутин
}

// NewYOLODetector загружает модель. labels - имена классов в порядке индексов.
func NewYOLODetector(modelPath string, labels []string, minConfidence float32) (*YOLODetector, error) {
	net := gocv.ReadNetFromONNX(modelPath)
	if net.Empty() {
		return nil, fmt.Errorf("failed to load model %s", modelPath)
	}
	if err := net.SetPreferableBackend(gocv.NetBackendDefault); err != nil {
		net.Close()
		return nil, err
	}
	if err := net.SetPreferableTarget(gocv.NetTargetCPU); err != nil {
		net.Close()
		return nil, err
	}

	return &YOLODetector{
		InputSize:     640,
		MinConfidence: minConfidence,
		NMSThreshold:  0.45,
		labels:        labels,
		net:           net,
	}, nil
}

// Detect прогоняет кадр через сеть и возвращает найденные объекты.
func (d *YOLODetector) Detect(ctx context.Context, frame []byte) ([]entity.DetectedRegion, error) {
	_ = ctx
	mat, err := decodeToMat(frame)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	blob := gocv.BlobFromImage(mat, 1.0/255.0, image.Pt(d.InputSize, d.InputSize), gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.mu.Lock()
	d.net.SetInput(blob, "")
	out := d.net.Forward("")
	d.mu.Unlock()
	defer out.Close()

	// Выход YOLOv8: [1, 4+классы, кандидаты].
	sizes := out.Size()
	if len(sizes) != 3 {
		return nil, fmt.Errorf("unexpected model output shape %v", sizes)
	}
	data, err := out.DataPtrFloat32()
	if err != nil {
		return nil, err
	}

	scaleX := float64(mat.Cols()) / float64(d.InputSize)
	scaleY := float64(mat.Rows()) / float64(d.InputSize)
	candidates := decodeYOLOv8(data, sizes[1], sizes[2], scaleX, scaleY, d.MinConfidence)
	if len(candidates) == 0 {
		return nil, nil
	}

	rects := make([]image.Rectangle, len(candidates))
	scores := make([]float32, len(candidates))
	for i, c := range candidates {
		rects[i] = c.rect
		scores[i] = c.score
	}
	keep := gocv.NMSBoxes(rects, scores, d.MinConfidence, d.NMSThreshold)

	bounds := image.Rect(0, 0, mat.Cols(), mat.Rows())
	regions := make([]entity.DetectedRegion, 0, len(keep))
	for _, i := range keep {
		if r, ok := toRegion(candidates[i], bounds, d.labels); ok {
			regions = append(regions, r)
		}
	}
	return regions, nil
}

// Annotate рисует красные рамки и подписи "метка уверенность".
func (d *YOLODetector) Annotate(frame []byte, regions []entity.DetectedRegion) ([]byte, error) {
	mat, err := decodeToMat(frame)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	red := color.RGBA{R: 255, A: 255}
	for _, r := range regions {
		rect := image.Rect(r.Box.X1, r.Box.Y1, r.Box.X2, r.Box.Y2)
		gocv.Rectangle(&mat, rect, red, 2)
		text := fmt.Sprintf("%s %.2f", r.Label, r.Confidence)
		size := gocv.GetTextSize(text, gocv.FontHersheySimplex, 0.6, 2)
		gocv.PutText(&mat, text, labelOrigin(r.Box, size.X), gocv.FontHersheySimplex, 0.6, red, 2)
	}

	return encodeJPEG(mat)
}

// Close освобождает сеть.
func (d *YOLODetector) Close() error {
	return d.net.Close()
}

// decodeToMat превращает байты изображения в gocv.Mat.
func decodeToMat(imageData []byte) (gocv.Mat, error) {
	mat, err := gocv.IMDecode(imageData, gocv.IMReadColor)
	if err == nil && !mat.Empty() {
		return mat, nil
	}
	if !mat.Empty() {
		mat.Close()
	}
	return gocv.NewMat(), errors.New("failed to decode image")
}

func encodeJPEG(mat gocv.Mat) ([]byte, error) {
	img, err := mat.ToImage()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
