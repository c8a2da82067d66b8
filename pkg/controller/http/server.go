package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/usecase"
	"github.com/secmon-lab/briareus/pkg/utils/errutil"
	"github.com/secmon-lab/briareus/pkg/utils/logging"
)

type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
}

type Options func(*Server)

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)
	r.Use(extractUserID)

	r.Route("/api", func(r chi.Router) {
		r.Route("/risks", func(r chi.Router) {
			r.Get("/", s.listRisks)
			r.Post("/", s.createRisk)
			r.Get("/evaluation", s.evaluateAppetite)
			r.Get("/{id}", s.getRisk)
			r.Put("/{id}", s.updateRisk)
			r.Delete("/{id}", s.deleteRisk)
			r.Get("/{id}/treatments", s.listTreatmentsByRisk)
		})

		r.Route("/matrices", func(r chi.Router) {
			r.Get("/", s.listMatrices)
			r.Post("/", s.createMatrix)
			r.Get("/active", s.getActiveMatrix)
			r.Get("/{id}", s.getMatrix)
			r.Put("/{id}", s.updateMatrix)
			r.Delete("/{id}", s.deleteMatrix)
			r.Post("/{id}/activate", s.activateMatrix)
		})

		r.Route("/appetites", func(r chi.Router) {
			r.Get("/", s.listAppetites)
			r.Post("/", s.createAppetite)
			r.Get("/active", s.getActiveAppetite)
			r.Get("/{id}", s.getAppetite)
			r.Put("/{id}", s.updateAppetite)
			r.Delete("/{id}", s.deleteAppetite)
			r.Post("/{id}/activate", s.activateAppetite)
		})

		r.Route("/controls", func(r chi.Router) {
			r.Get("/", s.listInternalControls)
			r.Post("/", s.createInternalControl)
			r.Get("/{id}", s.getInternalControl)
			r.Put("/{id}", s.updateInternalControl)
			r.Delete("/{id}", s.deleteInternalControl)
			r.Get("/{id}/findings", s.listFindingsByInternalControl)
		})

		r.Route("/framework-controls", func(r chi.Router) {
			r.Get("/", s.listFrameworkControls)
			r.Post("/", s.createFrameworkControl)
			r.Get("/{id}", s.getFrameworkControl)
			r.Put("/{id}", s.updateFrameworkControl)
			r.Delete("/{id}", s.deleteFrameworkControl)
			r.Get("/{id}/findings", s.listFindingsByFrameworkControl)
		})

		r.Route("/frameworks", func(r chi.Router) {
			r.Get("/", s.listFrameworks)
			r.Post("/", s.createFramework)
			r.Get("/{id}", s.getFramework)
			r.Put("/{id}", s.updateFramework)
			r.Delete("/{id}", s.deleteFramework)
			r.Post("/{id}/activate", s.activateFramework)
			r.Get("/{id}/controls", s.listControlsByFramework)
		})

		r.Route("/findings", func(r chi.Router) {
			r.Get("/", s.listFindings)
			r.Post("/", s.createFinding)
			r.Get("/{id}", s.getFinding)
			r.Put("/{id}", s.updateFinding)
			r.Delete("/{id}", s.deleteFinding)
		})

		r.Route("/assets", func(r chi.Router) {
			r.Get("/", s.listAssets)
			r.Post("/", s.createAsset)
			r.Get("/{id}", s.getAsset)
			r.Put("/{id}", s.updateAsset)
			r.Delete("/{id}", s.deleteAsset)
			r.Get("/{id}/bia", s.getAssessmentByAsset)
			r.Put("/{id}/bia", s.saveAssessment)
		})

		r.Route("/assessments", func(r chi.Router) {
			r.Get("/", s.listAssessments)
			r.Get("/{id}", s.getAssessment)
			r.Delete("/{id}", s.deleteAssessment)
		})

		r.Route("/treatments", func(r chi.Router) {
			r.Get("/", s.listTreatments)
			r.Post("/", s.createTreatment)
			r.Get("/{id}", s.getTreatment)
			r.Put("/{id}", s.updateTreatment)
			r.Delete("/{id}", s.deleteTreatment)
			r.Post("/{id}/start", s.startTreatment)
			r.Post("/{id}/complete", s.completeTreatment)
			r.Post("/{id}/cancel", s.cancelTreatment)
			r.Post("/{id}/controls", s.linkControl)
			r.Delete("/{id}/controls", s.unlinkControl)
		})

		r.Route("/policies", func(r chi.Router) {
			r.Get("/", s.listPolicies)
			r.Post("/", s.createPolicy)
			r.Get("/{id}", s.getPolicy)
			r.Put("/{id}", s.updatePolicy)
			r.Delete("/{id}", s.deletePolicy)
		})

		r.Route("/vendors", func(r chi.Router) {
			r.Get("/", s.listVendors)
			r.Post("/", s.createVendor)
			r.Get("/{id}", s.getVendor)
			r.Put("/{id}", s.updateVendor)
			r.Delete("/{id}", s.deleteVendor)
		})

		r.Route("/evidence", func(r chi.Router) {
			r.Get("/", s.listEvidence)
			r.Post("/", s.createEvidence)
			r.Get("/{id}", s.getEvidence)
			r.Put("/{id}", s.updateEvidence)
			r.Delete("/{id}", s.deleteEvidence)
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/", s.getDashboard)
			r.Post("/snapshots", s.takeSnapshot)
			r.Get("/snapshots", s.listSnapshots)
			r.Get("/snapshots/latest", s.getLatestSnapshot)
		})
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

type ctxKey string

const ctxUserIDKey ctxKey = "userID"

// extractUserID copies the caller identity header into the request context.
// Authentication happens upstream; the header is trusted as-is.
func extractUserID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if uid := r.Header.Get("X-User-ID"); uid != "" {
			r = r.WithContext(context.WithValue(r.Context(), ctxUserIDKey, uid))
		}
		next.ServeHTTP(w, r)
	})
}

func userIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(ctxUserIDKey).(string); ok {
		return v
	}
	return ""
}

func idParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, goerr.Wrap(err, "invalid id parameter", goerr.V("id", raw))
	}
	return id, nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return goerr.Wrap(err, "invalid request body")
	}
	return nil
}

func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case usecase.IsValidation(err):
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case usecase.IsNotFound(err):
		respondJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
	}
}

func (s *Server) handleBadRequest(w http.ResponseWriter, err error) {
	respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
}
