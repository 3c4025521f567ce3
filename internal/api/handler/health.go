package handler

import (
	"context"
	"net/http"

	"github.com/purva-labs/sahayak-api/internal/api/response"
	"github.com/purva-labs/sahayak-api/internal/domain"
	"github.com/purva-labs/sahayak-api/internal/llm/gemini"
)

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthCheck returns a simple health check response
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{
		"status": "ok",
	})
}

// ReadyCheck returns readiness status including store connectivity
func ReadyCheck(store HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.HealthCheck(r.Context()); err != nil {
			response.Error(w, http.StatusServiceUnavailable, "store not ready")
			return
		}

		response.OK(w, map[string]string{
			"status": "ready",
		})
	}
}

// AgentHealth reports the status of the AI agents and the model provider
func AgentHealth(provider *gemini.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "healthy"
		if !provider.IsConfigured() {
			status = "degraded - model provider not configured"
		}

		languages := make([]string, 0, len(domain.SupportedLanguages()))
		for _, lang := range domain.SupportedLanguages() {
			languages = append(languages, string(lang))
		}

		response.OK(w, map[string]any{
			"status":              status,
			"service":             "AI Teaching Assistant (Sahayak)",
			"provider_configured": provider.IsConfigured(),
			"model":               provider.DefaultModel(),
			"available_agents": []string{
				string(domain.AgentMain),
				string(domain.AgentHyperLocal),
				string(domain.AgentWorksheet),
				string(domain.AgentVisualAids),
				string(domain.AgentContentAnalysis),
			},
			"supported_languages": languages,
		})
	}
}
