package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danmuck/restorectl/internal/observability"
	"github.com/danmuck/restorectl/internal/restore"
)

type restoreGraphRequest struct {
	SolutionDir   string   `json:"solution_dir"`
	Projects      []string `json:"projects"`
	Configuration string   `json:"configuration"`
	Platform      string   `json:"platform"`
}

type restoreGraphResponse struct {
	Phase    string   `json:"phase"`
	Format   int      `json:"format"`
	Projects []string `json:"projects"`
	Restore  []string `json:"restore"`
}

func (s *Service) registerRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "restorectl",
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.POST("/restore-graph", s.handleRestoreGraph)
}

func (s *Service) handleRestoreGraph(c *gin.Context) {
	var req restoreGraphRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Projects) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "projects is required"})
		return
	}

	start := time.Now()
	res, err := s.driver.RestoreGraph(c.Request.Context(), restore.Request{
		SolutionDir:   req.SolutionDir,
		Projects:      req.Projects,
		Configuration: req.Configuration,
		Platform:      req.Platform,
	})
	observability.RecordInvocation(string(res.Phase), time.Since(start))

	if err != nil {
		s.log.Warn().Err(err).Str("phase", string(res.Phase)).Msg("restore graph failed")

		var exitErr *restore.ExitError
		switch {
		case errors.As(err, &exitErr):
			c.JSON(http.StatusBadGateway, gin.H{
				"error":     err.Error(),
				"phase":     string(res.Phase),
				"exit_code": exitErr.Code,
			})
		case errors.Is(err, restore.ErrCancelled):
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": err.Error(),
				"phase": string(res.Phase),
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": err.Error(),
				"phase": string(res.Phase),
			})
		}
		return
	}

	c.JSON(http.StatusOK, restoreGraphResponse{
		Phase:    string(res.Phase),
		Format:   res.Graph.Format,
		Projects: res.Graph.ProjectPaths(),
		Restore:  res.Graph.RestorePaths(),
	})
}
