// internal/handlers/game.go
package handlers

import (
	"encoding/json"
	"net/http"
)

// HealthHandler reports the match id, whose turn it is and who is seated.
func HealthHandler(s *MatchServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]interface{}{
			"match":   s.Match.ID.String(),
			"turn":    s.Match.Turn().String(),
			"players": s.Match.Occupancy(),
			"peers":   s.PeerCount(),
		}); err != nil {
			s.logger.Warnf("Failed to encode health response: %v", err)
		}
	}
}
