package services

import (
	"math"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"

	"alfredoptarigan/document-parser/internal/models"
)

const DefaultJobLimit = 5

type JobMatcher interface {
	FindMatchingJobs(skills []string, limit int) []models.RankedJob
}

type jobMatcher struct {
	catalog []models.JobPosting

	mu  sync.Mutex
	rng *rand.Rand
}

func NewJobMatcher() JobMatcher {
	return NewJobMatcherWithSource(JobCatalog(), rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// NewJobMatcherWithSource matches against catalog and draws backfill from src.
func NewJobMatcherWithSource(catalog []models.JobPosting, src rand.Source) JobMatcher {
	return &jobMatcher{
		catalog: catalog,
		rng:     rand.New(src),
	}
}

// FindMatchingJobs ranks postings by the share of their required skills the
// given skills cover. When fewer than limit postings match, the list is
// padded with random unmatched postings scored 0. An empty skill list
// returns a random sample.
func (m *jobMatcher) FindMatchingJobs(skills []string, limit int) []models.RankedJob {
	if limit <= 0 {
		return []models.RankedJob{}
	}

	normalized := normalizeSkills(skills)
	if len(normalized) == 0 {
		return m.sample(m.catalog, limit)
	}

	ranked := make([]models.RankedJob, 0, len(m.catalog))
	for _, job := range m.catalog {
		matches := countMatches(normalized, job.RequiredSkills)
		if matches == 0 {
			continue
		}

		ranked = append(ranked, models.RankedJob{
			JobPosting:     job,
			MatchScore:     matchScore(matches, len(job.RequiredSkills)),
			MatchingSkills: matches,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].MatchScore != ranked[j].MatchScore {
			return ranked[i].MatchScore > ranked[j].MatchScore
		}
		return ranked[i].MatchingSkills > ranked[j].MatchingSkills
	})

	if len(ranked) >= limit {
		return ranked[:limit]
	}

	selected := make(map[int]struct{}, len(ranked))
	for _, job := range ranked {
		selected[job.ID] = struct{}{}
	}

	remainder := make([]models.JobPosting, 0, len(m.catalog)-len(ranked))
	for _, job := range m.catalog {
		if _, ok := selected[job.ID]; !ok {
			remainder = append(remainder, job)
		}
	}

	return append(ranked, m.sample(remainder, limit-len(ranked))...)
}

// sample draws up to n distinct postings uniformly at random, unscored.
func (m *jobMatcher) sample(pool []models.JobPosting, n int) []models.RankedJob {
	if n > len(pool) {
		n = len(pool)
	}

	m.mu.Lock()
	perm := m.rng.Perm(len(pool))
	m.mu.Unlock()

	out := make([]models.RankedJob, 0, n)
	for _, idx := range perm[:n] {
		out = append(out, models.RankedJob{JobPosting: pool[idx]})
	}
	return out
}

func normalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, skill := range skills {
		if s := strings.ToLower(strings.TrimSpace(skill)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// countMatches counts user skills that contain, or are contained in, any
// required skill. Comparison is case-insensitive; userSkills are already lowered.
func countMatches(userSkills, required []string) int {
	matches := 0
	for _, skill := range userSkills {
		for _, req := range required {
			req = strings.ToLower(req)
			if strings.Contains(skill, req) || strings.Contains(req, skill) {
				matches++
				break
			}
		}
	}
	return matches
}

func matchScore(matches, required int) float64 {
	if required == 0 {
		return 0
	}
	return math.Round(float64(matches)/float64(required)*1000) / 10
}
