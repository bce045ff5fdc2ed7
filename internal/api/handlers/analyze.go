package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"scanmatch-utils/internal/logging"
	"scanmatch-utils/internal/scanner"
	"scanmatch-utils/pkg/models"
	"scanmatch-utils/pkg/utils"
)

var requestValidator = validator.New()

// AnalyzeResumeHandler handles POST /api/v1/analyze. It accepts a multipart
// form with the resume document and job description, submits the analysis
// job and returns the job handle immediately.
func AnalyzeResumeHandler(svc *scanner.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()
		logger := logging.GetGlobalLogger()
		c.Set("request_id", requestID)

		logger.Info("Processing resume analysis request", map[string]interface{}{
			"request_id": requestID,
			"endpoint":   "/api/v1/analyze",
			"method":     "POST",
		})

		fileHeader, err := c.FormFile("resume")
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.CreateErrorResponse(
				"validation_failed",
				"Resume file is required",
			))
		}

		file, err := fileHeader.Open()
		if err != nil {
			logger.Error("Failed to open uploaded file", map[string]interface{}{
				"request_id": requestID,
				"error":      err.Error(),
			})
			return c.JSON(http.StatusBadRequest, models.CreateErrorResponse(
				"invalid_request",
				"Failed to read resume file",
			))
		}
		defer file.Close()

		resumeBytes, err := io.ReadAll(io.LimitReader(file, models.MaxResumeFileSize+1))
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.CreateErrorResponse(
				"invalid_request",
				"Failed to read resume file",
			))
		}

		req := &models.AnalyzeRequest{
			ResumeFile:     resumeBytes,
			FileName:       fileHeader.Filename,
			JobDescription: c.FormValue("jobDescription"),
		}

		if err := requestValidator.Struct(req); err != nil {
			return c.JSON(http.StatusBadRequest, models.CreateErrorResponse(
				"validation_failed",
				"Resume file and job description are required",
			))
		}

		response, err := svc.Submit(c.Request().Context(), req)
		if err != nil {
			return writeServiceError(c, logger, requestID, err)
		}

		logger.Info("Analysis job submitted for background processing", map[string]interface{}{
			"request_id": requestID,
			"job_id":     response.JobID,
		})

		return c.JSON(http.StatusAccepted, response)
	}
}

// writeServiceError maps service errors onto HTTP responses
func writeServiceError(c echo.Context, logger logging.Logger, requestID string, err error) error {
	var custom *utils.CustomError
	if errors.As(err, &custom) {
		errorCode := "request_failed"
		switch custom.Code {
		case http.StatusBadRequest:
			errorCode = "validation_failed"
		case http.StatusNotFound:
			errorCode = "job_not_found"
		case http.StatusServiceUnavailable:
			errorCode = "storage_unavailable"
		}
		return c.JSON(custom.Code, models.CreateErrorResponse(errorCode, custom.Error()))
	}

	logger.Error("Unexpected service error", map[string]interface{}{
		"request_id": requestID,
		"error":      err.Error(),
	})

	return c.JSON(http.StatusInternalServerError, models.CreateErrorResponse(
		"internal_error",
		"Internal server error",
	))
}
