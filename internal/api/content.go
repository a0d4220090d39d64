package api

import (
	"net/http"

	"go.uber.org/zap"
)

type contentResponse struct {
	Snapshot any `json:"snapshot"`
	Load     any `json:"load"`
}

func handleGetContent(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, contentResponse{
			Snapshot: deps.Store.Current(),
			Load:     deps.Store.LastLoad(),
		})
	}
}

// handleReloadContent re-runs the loader, the manual recovery action for the
// total-failure screen.
func handleReloadContent(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, result := deps.Loader.Load(r.Context())
		deps.Store.SetLoadResult(snapshot, result)
		deps.Logger.Info("Content reloaded via API", zap.String("outcome", result.String()))
		writeJSON(w, http.StatusOK, contentResponse{
			Snapshot: snapshot,
			Load:     result,
		})
	}
}
