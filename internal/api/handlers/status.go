package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"scanmatch-utils/internal/logging"
	"scanmatch-utils/internal/scanner"
	"scanmatch-utils/pkg/utils"
)

// JobStatusHandler handles GET /api/v1/status/:jobId. Pollers receive the
// current job record; completed jobs carry the embedded analysis result.
func JobStatusHandler(svc *scanner.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()
		logger := logging.GetGlobalLogger()
		jobID := c.Param("jobId")

		logger.Debug("Processing job status request", map[string]interface{}{
			"request_id": requestID,
			"job_id":     jobID,
		})

		response, err := svc.GetStatus(c.Request().Context(), jobID)
		if err != nil {
			return writeServiceError(c, logger, requestID, err)
		}

		return c.JSON(http.StatusOK, response)
	}
}

// DeleteJobHandler handles DELETE /api/v1/status/:jobId
func DeleteJobHandler(svc *scanner.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()
		logger := logging.GetGlobalLogger()
		jobID := c.Param("jobId")

		if err := svc.DeleteJob(c.Request().Context(), jobID); err != nil {
			return writeServiceError(c, logger, requestID, err)
		}

		logger.Info("Job deleted", map[string]interface{}{
			"request_id": requestID,
			"job_id":     jobID,
		})

		return c.NoContent(http.StatusNoContent)
	}
}
