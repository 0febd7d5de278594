package api

import "garage/internal/entities"

type VINRequest struct {
	VIN string `json:"vin"`
}

// DecodeRequest optionally carries the VIN to decode. When set and different
// from the current one it is applied as a VIN edit first.
type DecodeRequest struct {
	VIN *string `json:"vin,omitempty"`
}

type FieldRequest struct {
	Value string `json:"value"`
}

type MakeRequest struct {
	Make string `json:"make"`
}

type ServicesRequest struct {
	Services []string `json:"services"`
}

type StateResponse struct {
	State entities.FormState `json:"state"`
	Error string             `json:"error,omitempty"`
}

type WhatsAppResponse struct {
	URL string `json:"url"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
