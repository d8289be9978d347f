package services

import (
	"math/rand/v2"
	"testing"

	"alfredoptarigan/document-parser/internal/models"
)

func seededMatcher() JobMatcher {
	return NewJobMatcherWithSource(JobCatalog(), rand.NewPCG(1, 2))
}

func TestJobCatalogHasTwentyUniquePostings(t *testing.T) {
	catalog := JobCatalog()
	if len(catalog) != 20 {
		t.Fatalf("expected 20 postings, got %d", len(catalog))
	}

	ids := map[int]bool{}
	for _, job := range catalog {
		if ids[job.ID] {
			t.Fatalf("duplicate id %d", job.ID)
		}
		ids[job.ID] = true
		if len(job.RequiredSkills) == 0 {
			t.Fatalf("posting %d has no required skills", job.ID)
		}
	}
}

func TestJobCatalogReturnsCopy(t *testing.T) {
	first := JobCatalog()
	first[0].RequiredSkills[0] = "COBOL"

	if JobCatalog()[0].RequiredSkills[0] == "COBOL" {
		t.Fatal("mutating a returned catalog must not affect later calls")
	}
}

func TestFindMatchingJobsFullStackRanksFirst(t *testing.T) {
	jobs := seededMatcher().FindMatchingJobs([]string{"python", "react", "mongodb", "node.js", "rest api"}, 5)

	if len(jobs) != 5 {
		t.Fatalf("expected 5 jobs, got %d", len(jobs))
	}
	top := jobs[0]
	if top.Title != "Full Stack Developer" || top.MatchScore != 100.0 || top.MatchingSkills != 5 {
		t.Fatalf("unexpected top job: %+v", top)
	}

	for i := 1; i < len(jobs); i++ {
		prev, cur := jobs[i-1], jobs[i]
		if cur.MatchScore > prev.MatchScore ||
			(cur.MatchScore == prev.MatchScore && cur.MatchingSkills > prev.MatchingSkills) {
			t.Fatalf("results not sorted at %d: %+v before %+v", i, prev, cur)
		}
	}
}

func TestFindMatchingJobsBackfillsWithZeroScores(t *testing.T) {
	jobs := seededMatcher().FindMatchingJobs([]string{"Figma", "Solidity"}, 5)

	if len(jobs) != 5 {
		t.Fatalf("expected 5 jobs, got %d", len(jobs))
	}
	for i, job := range jobs[:2] {
		if job.MatchScore != 20.0 || job.MatchingSkills != 1 {
			t.Fatalf("entry %d should be a genuine match, got %+v", i+1, job)
		}
	}
	for i, job := range jobs[2:] {
		if job.MatchScore != 0 || job.MatchingSkills != 0 {
			t.Fatalf("entry %d should be backfill, got %+v", i+3, job)
		}
	}
	assertNoDuplicateIDs(t, jobs)
}

func TestFindMatchingJobsEmptySkillsReturnsRandomSample(t *testing.T) {
	matcher := seededMatcher()

	for _, skills := range [][]string{nil, {}, {"  ", ""}} {
		jobs := matcher.FindMatchingJobs(skills, 5)
		if len(jobs) != 5 {
			t.Fatalf("expected 5 jobs for %q, got %d", skills, len(jobs))
		}
		assertNoDuplicateIDs(t, jobs)
	}

	if got := matcher.FindMatchingJobs(nil, 50); len(got) != 20 {
		t.Fatalf("sample must be bounded by catalog size, got %d", len(got))
	}
}

func TestFindMatchingJobsBackfillBoundedByRemainder(t *testing.T) {
	catalog := JobCatalog()[:3]
	matcher := NewJobMatcherWithSource(catalog, rand.NewPCG(3, 4))

	jobs := matcher.FindMatchingJobs([]string{"Python"}, 10)
	if len(jobs) != 3 {
		t.Fatalf("expected every posting exactly once, got %d", len(jobs))
	}
	assertNoDuplicateIDs(t, jobs)
}

func TestFindMatchingJobsNonPositiveLimit(t *testing.T) {
	if jobs := seededMatcher().FindMatchingJobs([]string{"Python"}, 0); jobs == nil || len(jobs) != 0 {
		t.Fatalf("expected empty list, got %#v", jobs)
	}
}

func TestCountMatchesIsBidirectionalSubstring(t *testing.T) {
	required := []string{"React Native", "JavaScript", "Mobile Development"}

	tests := []struct {
		skill string
		want  int
	}{
		{"react", 1},
		{"senior javascript engineer", 1},
		{"java", 1},
		{"golang", 0},
	}

	for _, tt := range tests {
		if got := countMatches([]string{tt.skill}, required); got != tt.want {
			t.Errorf("countMatches(%q) = %d, want %d", tt.skill, got, tt.want)
		}
	}
}

func TestMatchScoreRoundsToOneDecimal(t *testing.T) {
	tests := []struct {
		matches, required int
		want              float64
	}{
		{1, 3, 33.3},
		{2, 3, 66.7},
		{4, 4, 100.0},
		{1, 5, 20.0},
	}

	for _, tt := range tests {
		if got := matchScore(tt.matches, tt.required); got != tt.want {
			t.Errorf("matchScore(%d, %d) = %v, want %v", tt.matches, tt.required, got, tt.want)
		}
	}
}

func assertNoDuplicateIDs(t *testing.T, jobs []models.RankedJob) {
	t.Helper()
	seen := map[int]bool{}
	for _, job := range jobs {
		if seen[job.ID] {
			t.Fatalf("duplicate posting %d in %+v", job.ID, jobs)
		}
		seen[job.ID] = true
	}
}
