package models

// GradingRequest carries everything needed to grade one submission.
// Created per evaluation call; never persisted.
type GradingRequest struct {
	StudentSolution     string `json:"student_solution"`
	IdealSolution       string `json:"ideal_solution"`
	GradingInstructions string `json:"grading_instructions"`
	Model               string `json:"model"`
	// APIKey optionally overrides the configured credential for the
	// model's provider, for this call only.
	APIKey string `json:"api_key,omitempty"`
}
