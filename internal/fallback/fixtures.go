package fallback

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"talentflow/internal/pipeline"
)

//go:embed fixtures.yaml
var builtinFixtures []byte

const fixtureDateLayout = "2006-01-02"

type fixtureFile struct {
	Jobs []fixtureJob `yaml:"jobs"`
}

type fixtureJob struct {
	ID           string               `yaml:"id"`
	Title        string               `yaml:"title"`
	Company      string               `yaml:"company"`
	Location     string               `yaml:"location"`
	SalaryMin    int                  `yaml:"salary_min"`
	SalaryMax    int                  `yaml:"salary_max"`
	Skills       []string             `yaml:"skills"`
	Status       string               `yaml:"status"`
	Applications []fixtureApplication `yaml:"applications"`
}

type fixtureApplication struct {
	ID              string   `yaml:"id"`
	Name            string   `yaml:"name"`
	Title           string   `yaml:"title"`
	Location        string   `yaml:"location"`
	Email           string   `yaml:"email"`
	Phone           string   `yaml:"phone"`
	LinkedIn        string   `yaml:"linkedin"`
	GitHub          string   `yaml:"github"`
	Skills          []string `yaml:"skills"`
	Status          string   `yaml:"status"`
	SkillMatch      int      `yaml:"skill_match"`
	Experience      string   `yaml:"experience"`
	Applied         string   `yaml:"applied"`
	Interview       string   `yaml:"interview"`
	OfferAmount     *int64   `yaml:"offer_amount"`
	RejectionReason string   `yaml:"rejection_reason"`
	Score           *int     `yaml:"score"`
}

// Dataset is one job and its applications, in the same shape the remote serves.
type Dataset struct {
	Job          pipeline.Job
	Applications []pipeline.Application
}

func (d Dataset) clone() Dataset {
	out := Dataset{Job: d.Job, Applications: make([]pipeline.Application, len(d.Applications))}
	out.Job.Skills = append([]string(nil), d.Job.Skills...)
	for i, app := range d.Applications {
		out.Applications[i] = app.Clone()
	}
	return out
}

// ParseFixtures decodes a YAML fixture payload into datasets keyed by job id.
func ParseFixtures(data []byte) (map[string]Dataset, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]Dataset{}, nil
	}
	var file fixtureFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("fallback: decode fixtures: %w", err)
	}

	out := make(map[string]Dataset, len(file.Jobs))
	seenApps := make(map[string]string)
	for _, job := range file.Jobs {
		id := strings.TrimSpace(job.ID)
		if id == "" {
			return nil, fmt.Errorf("fallback: fixture job without id")
		}
		if _, dup := out[id]; dup {
			return nil, fmt.Errorf("fallback: duplicate fixture job %q", id)
		}
		ds := Dataset{Job: pipeline.Job{
			ID:        id,
			Title:     job.Title,
			Company:   job.Company,
			Location:  job.Location,
			SalaryMin: job.SalaryMin,
			SalaryMax: job.SalaryMax,
			Skills:    job.Skills,
			Status:    job.Status,
		}}
		for _, fa := range job.Applications {
			app, err := fa.toApplication(id)
			if err != nil {
				return nil, fmt.Errorf("fallback: job %q: %w", id, err)
			}
			if owner, dup := seenApps[app.ID]; dup {
				return nil, fmt.Errorf("fallback: application %q appears in jobs %q and %q", app.ID, owner, id)
			}
			seenApps[app.ID] = id
			ds.Applications = append(ds.Applications, app)
		}
		out[id] = ds
	}
	return out, nil
}

func (fa fixtureApplication) toApplication(jobID string) (pipeline.Application, error) {
	if strings.TrimSpace(fa.ID) == "" {
		return pipeline.Application{}, fmt.Errorf("application without id")
	}
	applied, err := parseFixtureDate(fa.Applied)
	if err != nil {
		return pipeline.Application{}, fmt.Errorf("application %q applied: %w", fa.ID, err)
	}
	app := pipeline.Application{
		ID:    fa.ID,
		JobID: jobID,
		Candidate: pipeline.Candidate{
			Name:     fa.Name,
			Title:    fa.Title,
			Location: fa.Location,
			Email:    fa.Email,
			Phone:    fa.Phone,
			LinkedIn: fa.LinkedIn,
			GitHub:   fa.GitHub,
			Skills:   fa.Skills,
		},
		Status:          fa.Status,
		SkillMatch:      fa.SkillMatch,
		Experience:      fa.Experience,
		AppliedDate:     applied,
		OfferAmount:     fa.OfferAmount,
		RejectionReason: fa.RejectionReason,
		Score:           fa.Score,
	}
	if fa.Interview != "" {
		interview, err := parseFixtureDate(fa.Interview)
		if err != nil {
			return pipeline.Application{}, fmt.Errorf("application %q interview: %w", fa.ID, err)
		}
		app.InterviewDate = &interview
	}
	return app, nil
}

func parseFixtureDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(fixtureDateLayout, value, time.UTC)
}
