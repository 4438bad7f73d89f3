package pipeline

import (
	"slices"
	"time"
)

// Candidate is the read-only person behind an application.
type Candidate struct {
	Name     string
	Title    string
	Location string
	Email    string
	Phone    string
	LinkedIn string
	GitHub   string
	Skills   []string
}

// Application is a candidate's submission for one job. Status is the only
// field the engine mutates; Version moves with it.
type Application struct {
	ID              string
	JobID           string
	Candidate       Candidate
	Status          string
	SkillMatch      int
	Experience      string
	AppliedDate     time.Time
	InterviewDate   *time.Time
	OfferAmount     *int64
	RejectionReason string
	Score           *int
	Version         uint64
}

// Clone returns a deep copy that shares no memory with a.
func (a Application) Clone() Application {
	out := a
	out.Candidate.Skills = slices.Clone(a.Candidate.Skills)
	if a.InterviewDate != nil {
		v := *a.InterviewDate
		out.InterviewDate = &v
	}
	if a.OfferAmount != nil {
		v := *a.OfferAmount
		out.OfferAmount = &v
	}
	if a.Score != nil {
		v := *a.Score
		out.Score = &v
	}
	return out
}

// Job is the posting an application pipeline belongs to.
type Job struct {
	ID        string
	Title     string
	Company   string
	Location  string
	SalaryMin int
	SalaryMax int
	Skills    []string
	Status    string
}

// Change describes the outcome of a status write.
type Change struct {
	ApplicationID string
	From          string
	To            string
	Version       uint64
	Changed       bool
}

// Transition is one entry of the store's history log.
type Transition struct {
	ApplicationID string
	From          string
	To            string
	Version       uint64
	At            time.Time
}

// Bucket is one board column.
type Bucket struct {
	StageID      string
	Applications []Application
}

// Partition groups every application into exactly one bucket, in registry
// order followed by the unknown bucket.
type Partition struct {
	Buckets []Bucket
}

// Count returns the size of the bucket for stageID.
func (p Partition) Count(stageID string) int {
	for _, b := range p.Buckets {
		if b.StageID == stageID {
			return len(b.Applications)
		}
	}
	return 0
}

// Total sums all bucket sizes.
func (p Partition) Total() int {
	total := 0
	for _, b := range p.Buckets {
		total += len(b.Applications)
	}
	return total
}

// Bucket returns the applications in the bucket for stageID.
func (p Partition) Bucket(stageID string) []Application {
	for _, b := range p.Buckets {
		if b.StageID == stageID {
			return b.Applications
		}
	}
	return nil
}

// LoadSummary reports data-integrity findings from Load.
type LoadSummary struct {
	Loaded     int
	Duplicates []string
	Unknown    []string
}

// StatusOutcome is the per-id result of a bulk status write.
type StatusOutcome struct {
	ID    string
	OK    bool
	Error string
}
