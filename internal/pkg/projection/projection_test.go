package projection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/station-microservice/internal/domain"
)

func TestProject(t *testing.T) {
	t.Run("zoom 0 maps everything to single tile", func(t *testing.T) {
		tile := Project(domain.Point{Lat: 48.137, Lon: 11.575}, 0)
		assert.Equal(t, domain.TileCoordinate{Z: 0, X: 0, Y: 0}, tile)
	})

	t.Run("origin at zoom 1 lands in south-east quadrant", func(t *testing.T) {
		tile := Project(domain.Point{Lat: 0, Lon: 0}, 1)
		assert.Equal(t, domain.TileCoordinate{Z: 1, X: 1, Y: 1}, tile)
	})

	t.Run("latitude beyond mercator limit is clamped", func(t *testing.T) {
		north := Project(domain.Point{Lat: 90, Lon: 0}, 4)
		assert.Equal(t, 0, north.Y)

		south := Project(domain.Point{Lat: -90, Lon: 0}, 4)
		assert.Equal(t, 15, south.Y)
	})

	t.Run("longitude outside range is wrapped", func(t *testing.T) {
		wrapped := Project(domain.Point{Lat: 10, Lon: 190}, 6)
		direct := Project(domain.Point{Lat: 10, Lon: -170}, 6)
		assert.Equal(t, direct, wrapped)

		// долгота 180 заворачивается в -180
		edge := Project(domain.Point{Lat: 10, Lon: 180}, 6)
		assert.Equal(t, 0, edge.X)
	})
}

func TestUnproject(t *testing.T) {
	t.Run("center of root tile is the origin", func(t *testing.T) {
		p := Unproject(domain.TileCoordinate{Z: 0, X: 0, Y: 0}, 4096, 2048, 2048)
		assert.InDelta(t, 0.0, p.Lat, 1e-9)
		assert.InDelta(t, 0.0, p.Lon, 1e-9)
	})

	t.Run("top-left pixel of root tile is the north-west corner", func(t *testing.T) {
		p := Unproject(domain.TileCoordinate{Z: 0, X: 0, Y: 0}, 4096, 0, 0)
		assert.InDelta(t, MaxLatitude, p.Lat, 1e-6)
		assert.InDelta(t, -180.0, p.Lon, 1e-9)
	})

	t.Run("extent scales the local coordinate space", func(t *testing.T) {
		small := Unproject(domain.TileCoordinate{Z: 2, X: 1, Y: 1}, 256, 128, 128)
		large := Unproject(domain.TileCoordinate{Z: 2, X: 1, Y: 1}, 4096, 2048, 2048)
		assert.InDelta(t, small.Lat, large.Lat, 1e-9)
		assert.InDelta(t, small.Lon, large.Lon, 1e-9)
	})
}

// Любой пиксель внутри тайла должен проецироваться обратно в тот же тайл
func TestProjectUnprojectRoundTrip(t *testing.T) {
	const extent = 4096

	for _, zoom := range []int{1, 5, 10, 14} {
		for _, tile := range []domain.TileCoordinate{
			{Z: zoom, X: 0, Y: 0},
			{Z: zoom, X: 1 << zoom / 2, Y: 1 << zoom / 3},
			{Z: zoom, X: 1<<zoom - 1, Y: 1<<zoom - 1},
		} {
			for _, px := range []int64{0, extent / 2, extent - 1} {
				// py=0 лежит ровно на границе тайлов, округление
				// трансцендентных функций делает floor неустойчивым
				for _, py := range []int64{1, extent / 2, extent - 1} {
					p := Unproject(tile, extent, px, py)
					back := Project(p, zoom)
					assert.Equal(t, tile, back,
						"zoom=%d tile=(%d,%d) pixel=(%d,%d)", zoom, tile.X, tile.Y, px, py)
				}
			}
		}
	}
}

func TestTilesForBoundingBox(t *testing.T) {
	t.Run("small box resolves to single tile", func(t *testing.T) {
		box := domain.BoundingBox{MinLat: 48.13, MinLon: 11.57, MaxLat: 48.14, MaxLon: 11.58}
		tiles := TilesForBoundingBox(box, 10)
		assert.Len(t, tiles, 1)
	})

	t.Run("box spanning grid lines enumerates in row-major order", func(t *testing.T) {
		box := domain.BoundingBox{MinLat: -10, MinLon: -10, MaxLat: 10, MaxLon: 10}
		tiles := TilesForBoundingBox(box, 1)

		assert.Equal(t, []domain.TileCoordinate{
			{Z: 1, X: 0, Y: 0},
			{Z: 1, X: 1, Y: 0},
			{Z: 1, X: 0, Y: 1},
			{Z: 1, X: 1, Y: 1},
		}, tiles)
	})

	t.Run("covers all tiles containing box corners", func(t *testing.T) {
		box := domain.BoundingBox{MinLat: 48.0, MinLon: 11.0, MaxLat: 48.5, MaxLon: 12.0}
		tiles := TilesForBoundingBox(box, 12)

		corners := []domain.TileCoordinate{
			Project(domain.Point{Lat: box.MaxLat, Lon: box.MinLon}, 12),
			Project(domain.Point{Lat: box.MinLat, Lon: box.MaxLon}, 12),
			Project(domain.Point{Lat: box.MaxLat, Lon: box.MaxLon}, 12),
			Project(domain.Point{Lat: box.MinLat, Lon: box.MinLon}, 12),
		}
		for _, corner := range corners {
			assert.Contains(t, tiles, corner)
		}
	})
}

func TestTilesForPoints(t *testing.T) {
	t.Run("deduplicates in first-appearance order", func(t *testing.T) {
		points := []domain.Point{
			{Lat: 48.137, Lon: 11.575}, // Munich
			{Lat: 52.520, Lon: 13.405}, // Berlin
			{Lat: 48.138, Lon: 11.576}, // Munich again, same tile
		}
		tiles := TilesForPoints(points, 10)

		assert.Len(t, tiles, 2)
		assert.Equal(t, Project(points[0], 10), tiles[0])
		assert.Equal(t, Project(points[1], 10), tiles[1])
	})

	t.Run("empty input yields empty slice", func(t *testing.T) {
		assert.Empty(t, TilesForPoints(nil, 10))
	})
}
