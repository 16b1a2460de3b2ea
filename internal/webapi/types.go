package webapi

import (
	"github.com/gradekit/gradekit/internal/models"
)

// GradeResponse is the success envelope for a completed grading call.
type GradeResponse struct {
	Status  string              `json:"status"`
	Data    *models.GradeRecord `json:"data"`
	Message string              `json:"message"`
}

// HealthResponse reports server liveness plus the known model catalog.
type HealthResponse struct {
	Status string   `json:"status"`
	Models []string `json:"models"`
}

// RefreshResponse is the catalog snapshot after a registry refresh.
type RefreshResponse struct {
	Status string                       `json:"status"`
	Models map[models.Provider][]string `json:"models"`
}

// ErrorResponse is returned for errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}
