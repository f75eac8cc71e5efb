package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"

	"communityBack/internal/models"
)

func (app *application) JWTMiddlewareWithRole(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return app.JWTMiddleware(next, requiredRole)
	}
}

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders, makeResponseJSON)
	authMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole(models.RoleUser))
	adminAuthMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole(models.RoleAdmin))

	mux := pat.New()

	mux.Get("/healthz", standardMiddleware.ThenFunc(app.healthz))

	// Market
	mux.Get("/market", standardMiddleware.ThenFunc(app.marketHandler.GetListings))
	mux.Post("/market/filtered", standardMiddleware.ThenFunc(app.marketHandler.GetFilteredListingsPost))
	mux.Post("/market", authMiddleware.ThenFunc(app.marketHandler.CreateListing))
	mux.Get("/market/:id", standardMiddleware.ThenFunc(app.marketHandler.GetListingByID))
	mux.Del("/market/:id", authMiddleware.ThenFunc(app.marketHandler.DeleteListing))

	// Properties
	mux.Get("/properties", standardMiddleware.ThenFunc(app.propertyHandler.GetListings))
	mux.Post("/properties/filtered", standardMiddleware.ThenFunc(app.propertyHandler.GetFilteredListingsPost))
	mux.Post("/properties", authMiddleware.ThenFunc(app.propertyHandler.CreateListing))
	mux.Get("/properties/:id", standardMiddleware.ThenFunc(app.propertyHandler.GetListingByID))
	mux.Del("/properties/:id", authMiddleware.ThenFunc(app.propertyHandler.DeleteListing))

	// Moderation
	mux.Put("/admin/:kind/:id/status", adminAuthMiddleware.ThenFunc(app.moderationHandler.SetApprovalStatus))

	// Media
	mux.Post("/media", authMiddleware.ThenFunc(app.mediaHandler.Upload))

	// Live feed; the upgrade must not get the JSON content type
	mux.Get("/ws/listings", alice.New(app.recoverPanic, app.logRequest).ThenFunc(app.ListingsWebSocketHandler))

	return mux
}

func (app *application) healthz(w http.ResponseWriter, r *http.Request) {
	if err := app.db.PingContext(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"unavailable"}`))
		return
	}
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
