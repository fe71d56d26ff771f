package dto

import (
	"time"

	"github.com/station-microservice/internal/domain"
)

// StationResponse - станция в ответе API
type StationResponse struct {
	ID                     string    `json:"id"`
	Kind                   string    `json:"kind"`
	Lat                    float64   `json:"lat"`
	Lon                    float64   `json:"lon"`
	ConnectedFuelingStatus *string   `json:"connected_fueling_status,omitempty"`
	PaymentKinds           []string  `json:"payment_kinds"`
	ResolvedAt             time.Time `json:"resolved_at"`
}

// StationFromDomain конвертирует доменную станцию в ответ API
func StationFromDomain(s domain.Station) StationResponse {
	resp := StationResponse{
		ID:           s.ID,
		Kind:         string(s.Kind),
		Lat:          s.Location.Lat,
		Lon:          s.Location.Lon,
		PaymentKinds: s.PaymentKinds,
		ResolvedAt:   s.ResolvedAt,
	}
	if resp.PaymentKinds == nil {
		resp.PaymentKinds = []string{}
	}
	if s.ConnectedFuelingStatus != nil {
		status := string(*s.ConnectedFuelingStatus)
		resp.ConnectedFuelingStatus = &status
	}
	return resp
}

// StationsFromDomain конвертирует список станций
func StationsFromDomain(stations []domain.Station) []StationResponse {
	out := make([]StationResponse, len(stations))
	for i, s := range stations {
		out[i] = StationFromDomain(s)
	}
	return out
}
