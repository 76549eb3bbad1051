package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"streamhub/render"
)

// Routes bundles every handler registered on the router.
type Routes struct {
	Pages         *PagesHandler
	Catalog       *CatalogHandler
	Watchlist     *WatchlistHandler
	Playback      *PlaybackHandler
	Debug         *DebugHandler
	Notifications *NotificationsHandler
	Admin         *AdminHandler
	// Images is optional; nil disables the /img proxy.
	Images *ImageHandler
}

// Register mounts the portal routes on r.
func Register(r *mux.Router, routes Routes) {
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", render.Static())).Methods(http.MethodGet)

	r.HandleFunc("/", routes.Pages.Dashboard).Methods(http.MethodGet)
	r.HandleFunc("/movies", routes.Pages.Movies).Methods(http.MethodGet)
	r.HandleFunc("/movies/more", routes.Pages.MoreMovies).Methods(http.MethodPost)
	r.HandleFunc("/sports", routes.Pages.Sports).Methods(http.MethodGet)
	r.HandleFunc("/search", routes.Pages.Search).Methods(http.MethodGet)
	r.HandleFunc("/watchlist", routes.Pages.Watchlist).Methods(http.MethodGet)
	r.HandleFunc("/movie/{id}", routes.Pages.Detail).Methods(http.MethodGet)
	r.HandleFunc("/detail/close", routes.Pages.CloseDetail).Methods(http.MethodPost)
	r.HandleFunc("/play/movie/{id}", routes.Pages.PlayMovie).Methods(http.MethodGet)
	r.HandleFunc("/play/sport/{id}", routes.Pages.PlaySport).Methods(http.MethodGet)
	r.HandleFunc("/player/quality", routes.Pages.SetQuality).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/catalog/{category}", routes.Catalog.List).Methods(http.MethodGet)
	api.HandleFunc("/watchlist", routes.Watchlist.List).Methods(http.MethodGet)
	api.HandleFunc("/watchlist/{id}/toggle", routes.Watchlist.Toggle).Methods(http.MethodPost)
	api.HandleFunc("/player/events", routes.Playback.Events).Methods(http.MethodPost)
	api.HandleFunc("/player/progress", routes.Playback.ListProgress).Methods(http.MethodGet)
	api.HandleFunc("/player/progress/{id}", routes.Playback.Progress).Methods(http.MethodGet)
	api.HandleFunc("/player/progress/{id}", routes.Playback.ClearProgress).Methods(http.MethodDelete)
	api.HandleFunc("/debug/logs", routes.Debug.Capture).Methods(http.MethodPost)
	if routes.Admin != nil {
		api.HandleFunc("/admin/status", routes.Admin.GetStatus).Methods(http.MethodGet)
	}

	r.HandleFunc("/ws/notifications", routes.Notifications.Stream).Methods(http.MethodGet)

	if routes.Images != nil {
		r.HandleFunc("/img/{size}/{path}", routes.Images.Serve).Methods(http.MethodGet)
	}
}
