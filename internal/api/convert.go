package api

import (
	"fmt"
	"strings"
	"time"

	"talentflow/internal/pipeline"
)

// FromApplication converts a store record into its transport form.
func FromApplication(app pipeline.Application) Application {
	dto := Application{
		ID:    app.ID,
		JobID: app.JobID,
		Candidate: Candidate{
			Name:     app.Candidate.Name,
			Title:    app.Candidate.Title,
			Location: app.Candidate.Location,
			Email:    app.Candidate.Email,
			Phone:    app.Candidate.Phone,
			LinkedIn: app.Candidate.LinkedIn,
			GitHub:   app.Candidate.GitHub,
			Skills:   nonNilStrings(app.Candidate.Skills),
		},
		Status:          app.Status,
		SkillMatch:      app.SkillMatch,
		Experience:      app.Experience,
		AppliedDate:     formatTime(app.AppliedDate),
		OfferAmount:     app.OfferAmount,
		RejectionReason: app.RejectionReason,
		Score:           app.Score,
		Version:         app.Version,
	}
	if app.InterviewDate != nil {
		dto.InterviewDate = formatTime(*app.InterviewDate)
	}
	return dto
}

// FromApplications converts a slice, never returning nil.
func FromApplications(apps []pipeline.Application) []Application {
	out := make([]Application, 0, len(apps))
	for _, app := range apps {
		out = append(out, FromApplication(app))
	}
	return out
}

// ToApplication converts a transport record into a store record. Malformed
// timestamps are rejected; a remote payload with them is treated as malformed.
func ToApplication(dto Application) (pipeline.Application, error) {
	if strings.TrimSpace(dto.ID) == "" {
		return pipeline.Application{}, fmt.Errorf("application without id")
	}
	applied, err := parseTime(dto.AppliedDate)
	if err != nil {
		return pipeline.Application{}, fmt.Errorf("application %q appliedDate: %w", dto.ID, err)
	}
	app := pipeline.Application{
		ID:    dto.ID,
		JobID: dto.JobID,
		Candidate: pipeline.Candidate{
			Name:     dto.Candidate.Name,
			Title:    dto.Candidate.Title,
			Location: dto.Candidate.Location,
			Email:    dto.Candidate.Email,
			Phone:    dto.Candidate.Phone,
			LinkedIn: dto.Candidate.LinkedIn,
			GitHub:   dto.Candidate.GitHub,
			Skills:   dto.Candidate.Skills,
		},
		Status:          dto.Status,
		SkillMatch:      dto.SkillMatch,
		Experience:      dto.Experience,
		AppliedDate:     applied,
		OfferAmount:     dto.OfferAmount,
		RejectionReason: dto.RejectionReason,
		Score:           dto.Score,
		Version:         dto.Version,
	}
	if dto.InterviewDate != "" {
		interview, err := parseTime(dto.InterviewDate)
		if err != nil {
			return pipeline.Application{}, fmt.Errorf("application %q interviewDate: %w", dto.ID, err)
		}
		app.InterviewDate = &interview
	}
	return app, nil
}

// ToApplications converts every record or fails on the first malformed one.
func ToApplications(dtos []Application) ([]pipeline.Application, error) {
	out := make([]pipeline.Application, 0, len(dtos))
	for _, dto := range dtos {
		app, err := ToApplication(dto)
		if err != nil {
			return nil, err
		}
		out = append(out, app)
	}
	return out, nil
}

// FromJob converts job metadata into its transport form.
func FromJob(job pipeline.Job) Job {
	return Job{
		ID:        job.ID,
		Title:     job.Title,
		Company:   job.Company,
		Location:  job.Location,
		SalaryMin: job.SalaryMin,
		SalaryMax: job.SalaryMax,
		Skills:    nonNilStrings(job.Skills),
		Status:    job.Status,
	}
}

// ToJob converts transport job metadata.
func ToJob(dto Job) pipeline.Job {
	return pipeline.Job{
		ID:        dto.ID,
		Title:     dto.Title,
		Company:   dto.Company,
		Location:  dto.Location,
		SalaryMin: dto.SalaryMin,
		SalaryMax: dto.SalaryMax,
		Skills:    dto.Skills,
		Status:    dto.Status,
	}
}

// FromOutcomes converts bulk outcomes into transport results.
func FromOutcomes(outcomes []pipeline.StatusOutcome) []StatusResult {
	out := make([]StatusResult, 0, len(outcomes))
	for _, o := range outcomes {
		out = append(out, StatusResult{ID: o.ID, OK: o.OK, Error: o.Error})
	}
	return out
}

// ToOutcomes converts transport results into bulk outcomes.
func ToOutcomes(results []StatusResult) []pipeline.StatusOutcome {
	out := make([]pipeline.StatusOutcome, 0, len(results))
	for _, r := range results {
		out = append(out, pipeline.StatusOutcome{ID: r.ID, OK: r.OK, Error: r.Error})
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateTimeFormat)
}

// parseTime accepts RFC3339 (with or without fractional seconds) and bare
// dates, which some backends emit for appliedDate.
func parseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
	}
	return t, nil
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
