package boardserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"talentflow/internal/api"
	"talentflow/internal/logging"
	"talentflow/internal/pipeline"
	"talentflow/internal/services"
)

func (s *Server) handleHealth(c *gin.Context) {
	if err := s.store.db.PingContext(c.Request.Context()); err != nil {
		logging.WarnWithContext(logging.WithContext(c.Request.Context(), s.logger), "database ping failed", "server_health_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check server.db_path permissions"),
			logging.String(logging.FieldImpact, "clients fall back to local data"),
		)
		c.JSON(http.StatusServiceUnavailable, api.HealthResponse{OK: false})
		return
	}
	c.JSON(http.StatusOK, api.HealthResponse{OK: true})
}

func (s *Server) handleGetJob(c *gin.Context) {
	job, err := s.store.GetJob(c.Request.Context(), c.Param("jobId"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.FromJob(job))
}

func (s *Server) handleListApplications(c *gin.Context) {
	apps, err := s.store.ListApplications(c.Request.Context(), c.Param("jobId"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.ApplicationListResponse{Items: api.FromApplications(apps)})
}

func (s *Server) handleUpdateStatus(c *gin.Context) {
	var req api.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, services.Wrap(services.ErrValidation, "boardserver", "update status", "invalid JSON body", err))
		return
	}
	status := strings.TrimSpace(req.Status)
	if err := s.registry.Validate(status); err != nil {
		s.writeError(c, err)
		return
	}

	id := c.Param("id")
	ctx := services.WithStage(services.WithApplicationID(c.Request.Context(), id), status)
	app, err := s.store.UpdateStatus(ctx, id, status)
	if err != nil {
		s.writeError(c, err)
		return
	}
	logging.WithContext(ctx, s.logger).Info("status updated", logging.Uint64("version", app.Version))
	c.JSON(http.StatusOK, api.ApplicationResponse{Item: api.FromApplication(app)})
}

func (s *Server) handleBulkStatus(c *gin.Context) {
	var req api.BulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, services.Wrap(services.ErrValidation, "boardserver", "bulk status", "invalid JSON body", err))
		return
	}
	if len(req.IDs) == 0 {
		s.writeError(c, services.Wrap(services.ErrValidation, "boardserver", "bulk status", "ids must not be empty", nil))
		return
	}
	status := strings.TrimSpace(req.Status)
	if err := s.registry.Validate(status); err != nil {
		s.writeError(c, err)
		return
	}

	ctx := services.WithStage(c.Request.Context(), status)
	outcomes := make([]pipeline.StatusOutcome, 0, len(req.IDs))
	for _, id := range req.IDs {
		outcome := pipeline.StatusOutcome{ID: id, OK: true}
		if _, err := s.store.UpdateStatus(ctx, id, status); err != nil {
			outcome.OK = false
			outcome.Error = err.Error()
			if !errors.Is(err, services.ErrNotFound) {
				logging.WithContext(services.WithApplicationID(ctx, id), s.logger).Warn("bulk status write failed", logging.Error(err))
			}
		}
		outcomes = append(outcomes, outcome)
	}
	c.JSON(http.StatusOK, api.BulkStatusResponse{Results: api.FromOutcomes(outcomes)})
}

func (s *Server) writeError(c *gin.Context, err error) {
	status := services.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logging.ErrorWithContext(logging.WithContext(c.Request.Context(), s.logger), "request failed", "server_request_failed",
			logging.String("path", c.Request.URL.Path),
			logging.Error(err),
		)
	}
	c.JSON(status, api.ErrorResponse{Error: err.Error()})
}
