package health

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/lucasmenke/suggestion-app/internal/app/system/cache"
	"github.com/lucasmenke/suggestion-app/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Handler holds dependencies needed for health checks.
type Handler struct {
	Client *mongo.Client
	Cache  *cache.Cache // optional; reported when set
	Log    *zap.Logger
}

// NewHandler constructs a health Handler with the Mongo client, the shared
// suggestion cache and logger.
func NewHandler(client *mongo.Client, c *cache.Cache, logger *zap.Logger) *Handler {
	return &Handler{
		Client: client,
		Cache:  c,
		Log:    logger,
	}
}

type healthResponse struct {
	Status        string `json:"status"`
	Database      string `json:"database"`
	CachedEntries *int   `json:"cached_entries,omitempty"`
	Message       string `json:"message,omitempty"`
	Error         string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected", "cached_entries":3 }
//
// On DB failure: 503 and
//
//	{ "status":"error", "database":"disconnected", "message":"Database unavailable", "error":"…" }
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{
		Status:   "ok",
		Database: "connected",
	}

	if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		resp.Status = "error"
		resp.Database = "disconnected"
		resp.Message = "Database unavailable"
		resp.Error = err.Error()
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	if h.Cache != nil {
		n := h.Cache.Size()
		resp.CachedEntries = &n
	}

	_ = json.NewEncoder(w).Encode(resp)
}
