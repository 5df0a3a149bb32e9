package rest

import "net/http"

// Router holds the handlers and the middleware mounted by NewRouter.
type Router struct {
	Health   *HealthHandler
	Attempts *AttemptHandler
	Sets     *SetHandler

	// API wraps every /api route. Probes bypass it.
	API func(http.Handler) http.Handler
	// StartLimit wraps attempt creation only.
	StartLimit func(http.Handler) http.Handler
}

// Handler builds the routing table.
func (rt Router) Handler() http.Handler {
	api := http.NewServeMux()

	api.Handle("POST /api/attempts", wrap(rt.StartLimit, http.HandlerFunc(rt.Attempts.Start)))
	api.HandleFunc("GET /api/attempts/{id}", rt.Attempts.Get)
	api.HandleFunc("POST /api/attempts/{id}/reveal", rt.Attempts.Reveal)
	api.HandleFunc("POST /api/attempts/{id}/hide", rt.Attempts.Hide)
	api.HandleFunc("POST /api/attempts/{id}/toggle", rt.Attempts.Toggle)
	api.HandleFunc("POST /api/attempts/{id}/answer", rt.Attempts.Answer)
	api.HandleFunc("POST /api/attempts/{id}/goto", rt.Attempts.GoTo)
	api.HandleFunc("POST /api/attempts/{id}/reset", rt.Attempts.Reset)
	api.HandleFunc("DELETE /api/attempts/{id}", rt.Attempts.Back)

	api.HandleFunc("GET /api/sets", rt.Sets.List)
	api.HandleFunc("POST /api/sets", rt.Sets.Create)
	api.HandleFunc("DELETE /api/sets/{id}", rt.Sets.Delete)
	api.HandleFunc("GET /api/sets/{id}/high-score", rt.Sets.HighScore)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /live", rt.Health.Live)
	mux.HandleFunc("GET /ready", rt.Health.Ready)
	mux.HandleFunc("GET /health", rt.Health.Health)
	mux.Handle("/api/", wrap(rt.API, api))
	return mux
}

func wrap(mw func(http.Handler) http.Handler, h http.Handler) http.Handler {
	if mw == nil {
		return h
	}
	return mw(h)
}
