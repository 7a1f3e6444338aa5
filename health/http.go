package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// LiveHandler answers liveness probes. It only proves the process is up;
// dependency state never fails liveness.
func LiveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

// ReadyHandler answers readiness probes from the registry's overall
// status. Degraded dependencies keep the process ready; only an
// unhealthy one fails the probe.
func ReadyHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status, _ := reg.Summary(ctx)

		w.Header().Set("Content-Type", "text/plain")
		switch status {
		case StatusUnhealthy:
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("UNHEALTHY"))
		case StatusDegraded:
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("DEGRADED"))
		default:
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("OK"))
		}
	}
}

// statusResponse is the JSON body of the detailed endpoint.
type statusResponse struct {
	Status       string                      `json:"status"`
	CheckedAt    string                      `json:"checkedAt"`
	Dependencies map[string]dependencyState `json:"dependencies,omitempty"`
}

// dependencyState is one dependency's entry in the detailed response.
type dependencyState struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Elapsed string         `json:"elapsed,omitempty"`
	Details map[string]any `json:"details,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// StatusHandler reports per-dependency health as JSON. An unhealthy
// overall status answers 503 so dashboards and probes agree.
func StatusHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		status, results := reg.Summary(ctx)

		resp := statusResponse{
			Status:       status.String(),
			CheckedAt:    time.Now().UTC().Format(time.RFC3339),
			Dependencies: make(map[string]dependencyState, len(results)),
		}
		for name, result := range results {
			entry := dependencyState{
				Status:  result.Status.String(),
				Message: result.Message,
				Elapsed: result.Elapsed.String(),
				Details: result.Details,
			}
			if result.Err != nil {
				entry.Error = result.Err.Error()
			}
			resp.Dependencies[name] = entry
		}

		w.Header().Set("Content-Type", "application/json")
		if status == StatusUnhealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// Routes mounts the probe and status handlers on mux.
func Routes(mux *http.ServeMux, reg *Registry) {
	mux.HandleFunc("/healthz", LiveHandler())
	mux.HandleFunc("/readyz", ReadyHandler(reg))
	mux.HandleFunc("/health", StatusHandler(reg))
}
