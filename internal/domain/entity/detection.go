package entity

// BoundingBox прямоугольник обнаруженного объекта в пикселях кадра.
type BoundingBox struct {
	X1 int `json:"x1"` // левый край
	Y1 int `json:"y1"` // верхний край
	X2 int `json:"x2"` // правый край, X2 > X1
	Y2 int `json:"y2"` // нижний край, Y2 > Y1
}

// Area возвращает площадь прямоугольника.
func (b BoundingBox) Area() int {
	return (b.X2 - b.X1) * (b.Y2 - b.Y1)
}

// Center возвращает координаты центра прямоугольника.
func (b BoundingBox) Center() (x, y int) {
	return (b.X1 + b.X2) / 2, (b.Y1 + b.Y2) / 2
}

// DetectedRegion одна область, найденная детектором на кадре.
type DetectedRegion struct {
	Label      string      `json:"label"`      // имя класса
	Confidence float64     `json:"confidence"` // уверенность 0..1
	Box        BoundingBox `json:"box"`        // координаты области
}
