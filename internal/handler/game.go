package handler

import (
	"net/http"
	"sort"

	"github.com/ultraselfai/game-provider-sub000/internal/game"
)

// GamesResponse lists the registered game IDs
type GamesResponse struct {
	Games []string `json:"games"`
}

// HandleListGames returns the IDs of all loaded game tables
func HandleListGames(registry game.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids := registry.GameIDs()
		sort.Strings(ids)
		respondJSON(w, http.StatusOK, GamesResponse{Games: ids})
	}
}
