// Package projection - чистая математика Web Mercator тайловой сетки:
// проекция географических координат в ячейки сетки (z/x/y) и обратная
// проекция пиксельных координат внутри тайла в широту/долготу.
package projection

import (
	"math"

	"github.com/station-microservice/internal/domain"
)

// MaxLatitude - предел широты проекции Web Mercator. Широта за пределом
// зажимается, долгота вне [-180, 180) заворачивается.
const MaxLatitude = 85.05112878

// Project проецирует точку на тайловую сетку заданного zoom
func Project(p domain.Point, zoom int) domain.TileCoordinate {
	lat := clampLatitude(p.Lat)
	lon := wrapLongitude(p.Lon)

	n := math.Exp2(float64(zoom))

	x := (lon + 180.0) / 360.0 * n

	latRad := lat * math.Pi / 180.0
	y := (1.0 - math.Log(math.Tan(latRad)+1.0/math.Cos(latRad))/math.Pi) / 2.0 * n

	max := int(n) - 1
	return domain.TileCoordinate{
		Z: zoom,
		X: clampIndex(int(math.Floor(x)), max),
		Y: clampIndex(int(math.Floor(y)), max),
	}
}

// Unproject переводит пиксельную позицию внутри тайла обратно в координаты.
// extent - размер локального координатного пространства тайла (например 4096).
func Unproject(tile domain.TileCoordinate, extent int, pixelX, pixelY int64) domain.Point {
	size := float64(extent) * math.Exp2(float64(tile.Z))

	lon := (float64(pixelX)+float64(tile.X)*float64(extent))*360.0/size - 180.0

	latIntermediate := 180.0 - (float64(pixelY)+float64(tile.Y)*float64(extent))*360.0/size
	lat := 360.0/math.Pi*math.Atan(math.Exp(latIntermediate*math.Pi/180.0)) - 90.0

	return domain.Point{Lat: lat, Lon: lon}
}

// TilesForBoundingBox перечисляет все ячейки сетки, покрывающие область
func TilesForBoundingBox(b domain.BoundingBox, zoom int) []domain.TileCoordinate {
	// северо-западный угол дает минимальный row, юго-восточный - максимальный
	topLeft := Project(domain.Point{Lat: b.MaxLat, Lon: b.MinLon}, zoom)
	bottomRight := Project(domain.Point{Lat: b.MinLat, Lon: b.MaxLon}, zoom)

	tiles := make([]domain.TileCoordinate, 0, (bottomRight.X-topLeft.X+1)*(bottomRight.Y-topLeft.Y+1))
	for y := topLeft.Y; y <= bottomRight.Y; y++ {
		for x := topLeft.X; x <= bottomRight.X; x++ {
			tiles = append(tiles, domain.TileCoordinate{Z: zoom, X: x, Y: y})
		}
	}
	return tiles
}

// TilesForPoints возвращает по одной ячейке на точку, без дубликатов,
// в порядке первого появления
func TilesForPoints(points []domain.Point, zoom int) []domain.TileCoordinate {
	seen := make(map[domain.TileCoordinate]struct{}, len(points))
	tiles := make([]domain.TileCoordinate, 0, len(points))
	for _, p := range points {
		tile := Project(p, zoom)
		if _, ok := seen[tile]; ok {
			continue
		}
		seen[tile] = struct{}{}
		tiles = append(tiles, tile)
	}
	return tiles
}

func clampLatitude(lat float64) float64 {
	if lat > MaxLatitude {
		return MaxLatitude
	}
	if lat < -MaxLatitude {
		return -MaxLatitude
	}
	return lat
}

func wrapLongitude(lon float64) float64 {
	for lon < -180 {
		lon += 360
	}
	for lon >= 180 {
		lon -= 360
	}
	return lon
}

func clampIndex(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
