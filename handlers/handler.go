// Package handlers contains the page and fragment handlers for the web
// client. Handlers render state; every data operation is a call into the
// backend client with the session token from the route guard.
package handlers

import (
	"bookery/backend"
	"bookery/services/booking"
	"bookery/session"

	"go.uber.org/zap"
)

// Handler bundles the dependencies every page handler needs.
type Handler struct {
	Backend *backend.Client
	Store   session.CookieStore
	Flows   *booking.Registry
	Logger  *zap.Logger
}

func New(client *backend.Client, store session.CookieStore, flows *booking.Registry, logger *zap.Logger) *Handler {
	return &Handler{
		Backend: client,
		Store:   store,
		Flows:   flows,
		Logger:  logger,
	}
}
