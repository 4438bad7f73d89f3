package fallback

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"strings"
	"time"

	"talentflow/internal/pipeline"
)

var (
	firstNames = []string{"Alex", "Bea", "Chen", "Dara", "Emil", "Fatima", "Gabriel", "Hana", "Ivan", "Jonas", "Kemi", "Leila", "Mateo", "Nora", "Omar", "Paula"}
	lastNames  = []string{"Adams", "Berg", "Costa", "Diaz", "Eriksen", "Fischer", "Gupta", "Horvat", "Ito", "Jensen", "Kowalski", "Lopez", "Mendes", "Novak", "Osei", "Park"}
	titles     = []string{"Software Engineer", "Backend Developer", "Frontend Developer", "Data Engineer", "DevOps Engineer", "QA Engineer"}
	locations  = []string{"Remote", "Berlin, DE", "Lisbon, PT", "Toronto, CA", "Austin, US", "Singapore, SG", "Nairobi, KE"}
	skillPool  = []string{"Go", "Python", "TypeScript", "React", "PostgreSQL", "Kubernetes", "AWS", "Docker", "GraphQL", "Kafka", "Terraform", "Redis"}
	companies  = []string{"Acme Corp", "Globex", "Initech", "Umbrella Labs", "Hooli"}
	jobTitles  = []string{"Software Engineer", "Platform Engineer", "Full Stack Developer", "Data Engineer"}
	statuses   = []string{"applied", "applied", "applied", "reviewed", "reviewed", "interview_scheduled", "selected", "offered", "rejected"}
	freeform   = []string{"Extensive", "Junior", "Several years"}
)

// syntheticEpoch anchors generated applied dates.
var syntheticEpoch = time.Date(2026, time.January, 15, 9, 0, 0, 0, time.UTC)

func seedFor(jobID string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(jobID))
	return h.Sum64()
}

// Synthesize generates a dataset for jobID. The same id always yields the
// same dataset.
func Synthesize(jobID string) Dataset {
	seed := seedFor(jobID)
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	job := pipeline.Job{
		ID:        jobID,
		Title:     pick(rng, jobTitles),
		Company:   pick(rng, companies),
		Location:  pick(rng, locations),
		SalaryMin: 60000 + 5000*rng.IntN(8),
		Skills:    pickSkills(rng, 3),
		Status:    "open",
	}
	job.SalaryMax = job.SalaryMin + 20000 + 5000*rng.IntN(4)

	count := 6 + rng.IntN(5)
	apps := make([]pipeline.Application, 0, count)
	for i := 1; i <= count; i++ {
		first, last := pick(rng, firstNames), pick(rng, lastNames)
		years := rng.IntN(15)
		experience := fmt.Sprintf("%d years", years)
		if rng.IntN(8) == 0 {
			experience = pick(rng, freeform)
		}
		app := pipeline.Application{
			ID:    fmt.Sprintf("%s-app-%d", jobID, i),
			JobID: jobID,
			Candidate: pipeline.Candidate{
				Name:     first + " " + last,
				Title:    pick(rng, titles),
				Location: pick(rng, locations),
				Email:    strings.ToLower(first+"."+last) + fmt.Sprintf("%d@example.com", i),
				Skills:   pickSkills(rng, 2+rng.IntN(3)),
			},
			Status:      pick(rng, statuses),
			SkillMatch:  35 + rng.IntN(65),
			Experience:  experience,
			AppliedDate: syntheticEpoch.AddDate(0, 0, -rng.IntN(30)),
		}
		switch app.Status {
		case "interview_scheduled":
			interview := syntheticEpoch.AddDate(0, 0, 3+rng.IntN(10))
			app.InterviewDate = &interview
		case "offered":
			offer := int64(job.SalaryMin + 5000*rng.IntN(4))
			app.OfferAmount = &offer
		case "rejected":
			app.RejectionReason = "Not a fit for current requirements"
		}
		apps = append(apps, app)
	}
	return Dataset{Job: job, Applications: apps}
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.IntN(len(values))]
}

func pickSkills(rng *rand.Rand, n int) []string {
	perm := rng.Perm(len(skillPool))
	n = min(n, len(skillPool))
	out := make([]string, n)
	for i := range n {
		out[i] = skillPool[perm[i]]
	}
	return out
}
