// Package handler provides the HTTP and websocket handlers of the movie
// catalog service.
package handler

import "github.com/vyrodovalexey/moviemanager/internal/model"

// Version is the application version.
const Version = "1.0.0"

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ReadyResponse represents the readiness check response.
type ReadyResponse struct {
	Status string `json:"status"`
	Movies int    `json:"movies"`
}

// Notifier receives catalog change events.
type Notifier interface {
	Publish(event model.ChangeEvent)
}

type nopNotifier struct{}

func (nopNotifier) Publish(model.ChangeEvent) {}
