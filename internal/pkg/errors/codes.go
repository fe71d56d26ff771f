package errors

import "net/http"

var (
	ErrStationNotFound = New(
		"STATION_NOT_FOUND",
		"Station not found",
		http.StatusNotFound,
	)

	ErrInvalidCoordinates = New(
		"INVALID_COORDINATES",
		"Invalid coordinates provided",
		http.StatusBadRequest,
	)

	ErrInvalidZoom = New(
		"INVALID_ZOOM",
		"Invalid zoom level: must be between 0 and 22",
		http.StatusBadRequest,
	)

	ErrInvalidPadding = New(
		"INVALID_PADDING",
		"Invalid viewport padding",
		http.StatusBadRequest,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrTooManyRedirects = New(
		"TOO_MANY_REDIRECTS",
		"Station lookup exceeded the redirect limit",
		http.StatusBadGateway,
	)

	ErrMalformedRedirect = New(
		"MALFORMED_REDIRECT",
		"Station lookup redirect carried no target identifier",
		http.StatusBadGateway,
	)

	ErrTileDecode = New(
		"TILE_DECODE_ERROR",
		"Tile payload could not be decoded",
		http.StatusBadGateway,
	)

	ErrUpstreamError = New(
		"UPSTREAM_ERROR",
		"Upstream request failed",
		http.StatusBadGateway,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)

// StationNotFound создает ошибку NOT_FOUND для конкретного идентификатора,
// не мутируя общий sentinel
func StationNotFound(id string) *AppError {
	return New(
		ErrStationNotFound.Code,
		ErrStationNotFound.Message,
		ErrStationNotFound.StatusCode,
	).WithDetails(map[string]interface{}{"id": id})
}
