package host

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/Ajay-Kandakatla/synchrony-nexus-sub001/pkg/plugin"
)

// StatusHandler exposes read-only registry state over HTTP for operators.
type StatusHandler struct {
	host *Host
}

// NewStatusHandler creates a status handler for h.
func NewStatusHandler(h *Host) *StatusHandler {
	return &StatusHandler{host: h}
}

// StatusResponse is the JSON body for GET /healthz.
type StatusResponse struct {
	Status    string        `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
	Summary   StatusSummary `json:"summary"`
}

// StatusSummary aggregates registry and activation state.
type StatusSummary struct {
	Plugins            int `json:"plugins"`
	Routes             int `json:"routes"`
	ActivationFailures int `json:"activationFailures"`
}

// PluginInfo is the JSON projection of one plugin descriptor.
type PluginInfo struct {
	ID           string         `json:"id"`
	Categories   []string       `json:"categories"`
	Display      plugin.Display `json:"display"`
	Capabilities []string       `json:"capabilities"`
	Routes       []plugin.Route `json:"routes"`
}

// Routes mounts the status endpoints on a new router.
func (s *StatusHandler) Routes() *httprouter.Router {
	router := httprouter.New()
	router.GET("/healthz", s.HandleStatus)
	router.GET("/plugins", s.HandlePlugins)
	router.GET("/plugins/:id", s.HandlePlugin)
	router.GET("/routes", s.HandleRoutes)
	return router
}

// HandleStatus handles GET /healthz.
func (s *StatusHandler) HandleStatus(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	failures := countFailures(s.host.ActivationReport())

	status := "healthy"
	if failures > 0 {
		status = "degraded"
	}

	writeJSON(w, http.StatusOK, StatusResponse{
		Status:    status,
		Timestamp: time.Now(),
		Summary: StatusSummary{
			Plugins:            len(s.host.Registry().GetAllPlugins()),
			Routes:             len(s.host.Registry().GetAllRoutes()),
			ActivationFailures: failures,
		},
	})
}

// HandlePlugins handles GET /plugins.
func (s *StatusHandler) HandlePlugins(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	descs := s.host.Registry().GetAllPlugins()
	infos := make([]PluginInfo, 0, len(descs))
	for _, desc := range descs {
		infos = append(infos, pluginInfo(desc))
	}
	writeJSON(w, http.StatusOK, infos)
}

// HandlePlugin handles GET /plugins/:id.
func (s *StatusHandler) HandlePlugin(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	desc, ok := s.host.Registry().GetPlugin(ps.ByName("id"))
	if !ok {
		http.Error(w, "plugin not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, pluginInfo(desc))
}

// HandleRoutes handles GET /routes.
func (s *StatusHandler) HandleRoutes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, s.host.Registry().GetAllRoutes())
}

func pluginInfo(desc *plugin.Descriptor) PluginInfo {
	return PluginInfo{
		ID:           desc.ID,
		Categories:   desc.Categories,
		Display:      desc.Display,
		Capabilities: desc.Capabilities,
		Routes:       desc.Routes,
	}
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}
