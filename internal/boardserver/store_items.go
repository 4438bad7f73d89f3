package boardserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"talentflow/internal/pipeline"
	"talentflow/internal/services"
)

const applicationColumns = "id, job_id, status, candidate_json, skill_match, experience, applied_date, interview_date, offer_amount, rejection_reason, score, version"

// PutJob inserts or replaces job metadata.
func (s *Store) PutJob(ctx context.Context, job pipeline.Job) error {
	skills, err := json.Marshal(nonNil(job.Skills))
	if err != nil {
		return fmt.Errorf("marshal skills: %w", err)
	}
	status := job.Status
	if status == "" {
		status = "open"
	}
	_, err = s.exec(ctx,
		`INSERT INTO jobs (id, title, company, location, salary_min, salary_max, skills_json, status, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            title = excluded.title,
            company = excluded.company,
            location = excluded.location,
            salary_min = excluded.salary_min,
            salary_max = excluded.salary_max,
            skills_json = excluded.skills_json,
            status = excluded.status,
            updated_at = excluded.updated_at`,
		job.ID, job.Title, job.Company, job.Location, job.SalaryMin, job.SalaryMax, string(skills), status, s.timestamp(),
	)
	if err != nil {
		return fmt.Errorf("put job: %w", err)
	}
	return nil
}

// GetJob returns job metadata or an ErrNotFound-wrapped error.
func (s *Store) GetJob(ctx context.Context, id string) (pipeline.Job, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, company, location, salary_min, salary_max, skills_json, status FROM jobs WHERE id = ?`, id)
	var (
		job    pipeline.Job
		skills string
	)
	err := row.Scan(&job.ID, &job.Title, &job.Company, &job.Location, &job.SalaryMin, &job.SalaryMax, &skills, &job.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return pipeline.Job{}, services.Wrap(services.ErrNotFound, "boardserver", "get job", fmt.Sprintf("job %q", id), nil)
	}
	if err != nil {
		return pipeline.Job{}, fmt.Errorf("get job: %w", err)
	}
	if err := json.Unmarshal([]byte(skills), &job.Skills); err != nil {
		return pipeline.Job{}, fmt.Errorf("decode job skills: %w", err)
	}
	return job, nil
}

// ReplaceApplications swaps every application of jobID for apps, keeping
// their order. The job row must exist.
func (s *Store) ReplaceApplications(ctx context.Context, jobID string, apps []pipeline.Application) error {
	return s.retry.run(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin replace tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx, "DELETE FROM applications WHERE job_id = ?", jobID); err != nil {
			return fmt.Errorf("clear applications: %w", err)
		}
		now := s.timestamp()
		for i, app := range apps {
			candidate, err := json.Marshal(app.Candidate)
			if err != nil {
				return fmt.Errorf("marshal candidate %s: %w", app.ID, err)
			}
			_, err = tx.ExecContext(ctx,
				`INSERT INTO applications (
                    id, job_id, position, status, candidate_json, skill_match, experience,
                    applied_date, interview_date, offer_amount, rejection_reason, score, version, updated_at
                ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				app.ID, jobID, i, app.Status, string(candidate), app.SkillMatch, app.Experience,
				app.AppliedDate.UTC().Format(time.RFC3339Nano),
				nullableTime(app.InterviewDate),
				nullableInt64(app.OfferAmount),
				nullableString(app.RejectionReason),
				nullableInt(app.Score),
				app.Version,
				now,
			)
			if err != nil {
				return fmt.Errorf("insert application %s: %w", app.ID, err)
			}
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit replace: %w", err)
		}
		return nil
	})
}

// ListApplications returns the applications of jobID in stored order.
func (s *Store) ListApplications(ctx context.Context, jobID string) ([]pipeline.Application, error) {
	if _, err := s.GetJob(ctx, jobID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE job_id = ? ORDER BY position, id`, jobID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	apps := make([]pipeline.Application, 0)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applications: %w", err)
	}
	return apps, nil
}

// GetApplication returns one application or an ErrNotFound-wrapped error.
func (s *Store) GetApplication(ctx context.Context, id string) (pipeline.Application, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = ?`, id)
	app, err := scanApplication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return pipeline.Application{}, services.Wrap(services.ErrNotFound, "boardserver", "get application", fmt.Sprintf("application %q", id), nil)
	}
	if err != nil {
		return pipeline.Application{}, fmt.Errorf("get application: %w", err)
	}
	return app, nil
}

// UpdateStatus sets the status of application id. The version is bumped only
// when the status actually changes. Stage validation is the caller's job.
func (s *Store) UpdateStatus(ctx context.Context, id, status string) (pipeline.Application, error) {
	_, err := s.exec(ctx,
		`UPDATE applications SET status = ?, version = version + 1, updated_at = ? WHERE id = ? AND status <> ?`,
		status, s.timestamp(), id, status,
	)
	if err != nil {
		return pipeline.Application{}, fmt.Errorf("update status: %w", err)
	}
	return s.GetApplication(ctx, id)
}

// Counts returns the number of stored jobs and applications.
func (s *Store) Counts(ctx context.Context) (jobs, applications int, err error) {
	row := s.db.QueryRowContext(ctx, `SELECT (SELECT COUNT(1) FROM jobs), (SELECT COUNT(1) FROM applications)`)
	if err := row.Scan(&jobs, &applications); err != nil {
		return 0, 0, fmt.Errorf("count rows: %w", err)
	}
	return jobs, applications, nil
}

func scanApplication(scanner interface{ Scan(dest ...any) error }) (pipeline.Application, error) {
	var (
		app             pipeline.Application
		candidate       string
		appliedRaw      string
		interviewRaw    sql.NullString
		offer           sql.NullInt64
		rejectionReason sql.NullString
		score           sql.NullInt64
		version         int64
	)
	if err := scanner.Scan(
		&app.ID,
		&app.JobID,
		&app.Status,
		&candidate,
		&app.SkillMatch,
		&app.Experience,
		&appliedRaw,
		&interviewRaw,
		&offer,
		&rejectionReason,
		&score,
		&version,
	); err != nil {
		return pipeline.Application{}, err
	}

	if err := json.Unmarshal([]byte(candidate), &app.Candidate); err != nil {
		return pipeline.Application{}, fmt.Errorf("decode candidate %s: %w", app.ID, err)
	}
	applied, err := time.Parse(time.RFC3339Nano, appliedRaw)
	if err != nil {
		return pipeline.Application{}, fmt.Errorf("parse applied date %s: %w", app.ID, err)
	}
	app.AppliedDate = applied
	if interviewRaw.Valid && interviewRaw.String != "" {
		ts, err := time.Parse(time.RFC3339Nano, interviewRaw.String)
		if err != nil {
			return pipeline.Application{}, fmt.Errorf("parse interview date %s: %w", app.ID, err)
		}
		app.InterviewDate = &ts
	}
	if offer.Valid {
		amount := offer.Int64
		app.OfferAmount = &amount
	}
	if score.Valid {
		v := int(score.Int64)
		app.Score = &v
	}
	app.RejectionReason = rejectionReason.String
	app.Version = uint64(version)
	return app, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil || value.IsZero() {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func nullableInt64(value *int64) any {
	if value == nil {
		return nil
	}
	return *value
}

func nullableInt(value *int) any {
	if value == nil {
		return nil
	}
	return *value
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
