package utils

import (
	"math"

	"github.com/station-microservice/internal/domain"
)

const earthRadiusM = 6371000.0

// метров в одном градусе широты (приближенно, для паддинга вьюпорта)
const metersPerDegreeLat = 111320.0

// HaversineDistance вычисляет расстояние между двумя точками в метрах
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180.0
	dLon := (lon2 - lon1) * math.Pi / 180.0

	lat1Rad := lat1 * math.Pi / 180.0
	lat2Rad := lat2 * math.Pi / 180.0

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusM * c
}

// Distance - расстояние между двумя точками в метрах
func Distance(a, b domain.Point) float64 {
	return HaversineDistance(a.Lat, a.Lon, b.Lat, b.Lon)
}

// ValidateCoordinates проверяет валидность координат
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// ValidateBoundingBox проверяет валидность области (min <= max, координаты в диапазоне)
func ValidateBoundingBox(b domain.BoundingBox) bool {
	return ValidateCoordinates(b.MinLat, b.MinLon) &&
		ValidateCoordinates(b.MaxLat, b.MaxLon) &&
		b.MinLat <= b.MaxLat && b.MinLon <= b.MaxLon
}

// ExpandBoundingBox расширяет область на paddingMeters во все стороны.
// Долгота масштабируется по косинусу широты центра области.
func ExpandBoundingBox(b domain.BoundingBox, paddingMeters float64) domain.BoundingBox {
	if paddingMeters <= 0 {
		return b
	}

	dLat := paddingMeters / metersPerDegreeLat

	centerLat := (b.MinLat + b.MaxLat) / 2
	cosLat := math.Cos(centerLat * math.Pi / 180.0)
	if cosLat < 0.01 {
		cosLat = 0.01
	}
	dLon := paddingMeters / (metersPerDegreeLat * cosLat)

	return domain.BoundingBox{
		MinLat: math.Max(b.MinLat-dLat, -90),
		MinLon: math.Max(b.MinLon-dLon, -180),
		MaxLat: math.Min(b.MaxLat+dLat, 90),
		MaxLon: math.Min(b.MaxLon+dLon, 180),
	}
}
