package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Candidate is the transport form of pipeline.Candidate.
type Candidate struct {
	Name     string   `json:"name"`
	Title    string   `json:"title,omitempty"`
	Location string   `json:"location,omitempty"`
	Email    string   `json:"email,omitempty"`
	Phone    string   `json:"phone,omitempty"`
	LinkedIn string   `json:"linkedin,omitempty"`
	GitHub   string   `json:"github,omitempty"`
	Skills   []string `json:"skills"`
}

// Application is the transport form of pipeline.Application.
type Application struct {
	ID              string    `json:"id"`
	JobID           string    `json:"jobId"`
	Candidate       Candidate `json:"candidate"`
	Status          string    `json:"status"`
	SkillMatch      int       `json:"skillMatch"`
	Experience      string    `json:"experience"`
	AppliedDate     string    `json:"appliedDate"`
	InterviewDate   string    `json:"interviewDate,omitempty"`
	OfferAmount     *int64    `json:"offerAmount,omitempty"`
	RejectionReason string    `json:"rejectionReason,omitempty"`
	Score           *int      `json:"score,omitempty"`
	Version         uint64    `json:"version"`
}

// Job is job posting metadata.
type Job struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Company   string   `json:"company"`
	Location  string   `json:"location"`
	SalaryMin int      `json:"salaryMin"`
	SalaryMax int      `json:"salaryMax"`
	Skills    []string `json:"skills"`
	Status    string   `json:"status"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	OK bool `json:"ok"`
}

// ApplicationListResponse wraps GET /jobs/{jobId}/applications.
type ApplicationListResponse struct {
	Items []Application `json:"items"`
}

// ApplicationResponse wraps a single updated record.
type ApplicationResponse struct {
	Item Application `json:"item"`
}

// StatusUpdateRequest is the body of PATCH /applications/{id}/status.
type StatusUpdateRequest struct {
	Status string `json:"status"`
}

// BulkStatusRequest is the body of POST /applications/bulk-status.
type BulkStatusRequest struct {
	IDs    []string `json:"ids"`
	Status string   `json:"status"`
}

// StatusResult is one entry of a bulk status response.
type StatusResult struct {
	ID    string `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// BulkStatusResponse wraps per-id bulk outcomes.
type BulkStatusResponse struct {
	Results []StatusResult `json:"results"`
}

// ErrorResponse is the body of any non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}
