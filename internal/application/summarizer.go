package app

import "cook-bot/internal/domain/entity"

// SelectLabel выбирает метку области с наибольшей площадью.
// При равной площади побеждает первая по порядку. Пустой список даёт ok=false.
func SelectLabel(regions []entity.DetectedRegion) (label string, ok bool) {
	bestArea := -1
	for _, r := range regions {
		if area := r.Box.Area(); area > bestArea {
			bestArea = area
			label = r.Label
			ok = true
		}
	}
	return label, ok
}
