package vision

import (
	"image"

	"cook-bot/internal/domain/entity"
)

// candidate один бокс из выхода YOLOv8 до подавления пересечений.
type candidate struct {
	rect    image.Rectangle
	score   float32
	classID int
}

// decodeYOLOv8 разбирает выход [1, 4+классы, N] в координатах исходного кадра.
// data хранит строки подряд: сначала cx по всем N, затем cy и так далее.
func decodeYOLOv8(data []float32, rows, cols int, scaleX, scaleY float64, minScore float32) []candidate {
	if rows <= 4 || cols <= 0 || len(data) < rows*cols {
		return nil
	}

	var out []candidate
	for c := 0; c < cols; c++ {
		bestClass, bestScore := -1, float32(0)
		for r := 4; r < rows; r++ {
			if s := data[r*cols+c]; s > bestScore {
				bestClass, bestScore = r-4, s
			}
		}
		if bestClass < 0 || bestScore < minScore {
			continue
		}

		cx := float64(data[0*cols+c])
		cy := float64(data[1*cols+c])
		w := float64(data[2*cols+c])
		h := float64(data[3*cols+c])
		out = append(out, candidate{
			rect: image.Rect(
				int((cx-w/2)*scaleX),
				int((cy-h/2)*scaleY),
				int((cx+w/2)*scaleX),
				int((cy+h/2)*scaleY),
			),
			score:   bestScore,
			classID: bestClass,
		})
	}
	return out
}

// toRegion обрезает бокс по границам кадра; вырожденные боксы отбрасываются.
func toRegion(c candidate, bounds image.Rectangle, labels []string) (entity.DetectedRegion, bool) {
	r := c.rect.Intersect(bounds)
	if r.Dx() <= 0 || r.Dy() <= 0 {
		return entity.DetectedRegion{}, false
	}
	return entity.DetectedRegion{
		Label:      labelFor(labels, c.classID),
		Confidence: float64(c.score),
		Box:        entity.BoundingBox{X1: r.Min.X, Y1: r.Min.Y, X2: r.Max.X, Y2: r.Max.Y},
	}, true
}

// labelOrigin ставит подпись над рамкой по центру; textWidth - ширина текста в пикселях.
// Подпись не выходит за левый и верхний край кадра.
func labelOrigin(box entity.BoundingBox, textWidth int) image.Point {
	cx, _ := box.Center()
	x := cx - textWidth/2
	if x < 0 {
		x = 0
	}
	y := box.Y1 - 12
	if y < 12 {
		y = 12
	}
	return image.Pt(x, y)
}
