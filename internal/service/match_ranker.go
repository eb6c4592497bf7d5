package service

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/AdityaXD007/LearnXchange/internal/dto"
	"github.com/AdityaXD007/LearnXchange/internal/models"
	appErrors "github.com/AdityaXD007/LearnXchange/pkg/errors"
)

// OnlineWindow is how recent last activity must be for a user to count as online.
const OnlineWindow = 30 * time.Minute

// perfectMatchThreshold counts toward MatchStats.PerfectMatches.
const perfectMatchThreshold = 90

// IsOnline reports whether lastActive falls inside OnlineWindow before now.
func IsOnline(lastActive *time.Time, now time.Time) bool {
	return lastActive != nil && lastActive.After(now.Add(-OnlineWindow))
}

// ParseMatchFilter validates raw query values. Unknown sort keys fall back to relevance.
func ParseMatchFilter(q dto.MatchQuery) (models.MatchFilter, error) {
	filter := models.MatchFilter{
		Search: strings.TrimSpace(q.Search),
		Skill:  strings.TrimSpace(q.Skill),
		Sort:   models.MatchSortRelevance,
	}

	if level := strings.ToLower(strings.TrimSpace(q.Level)); level != "" {
		p := models.Proficiency(level)
		if !p.Valid() {
			return models.MatchFilter{}, appErrors.Field("level", "level must be one of beginner, intermediate, advanced, expert")
		}
		filter.Level = p
	}

	if raw := strings.TrimSpace(q.MinRating); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || v < 0 || v > 5 {
			return models.MatchFilter{}, appErrors.Field("min_rating", "min_rating must be a number between 0 and 5")
		}
		filter.MinRating = &v
	}

	switch s := models.MatchSort(strings.ToLower(strings.TrimSpace(q.Sort))); s {
	case models.MatchSortRating, models.MatchSortSessions, models.MatchSortRecent:
		filter.Sort = s
	}

	return filter, nil
}

// RankCandidates filters, scores and orders pool relative to self.
// Filters are conjunctive; candidates scoring 0 and self are dropped; the
// sort is stable so ties keep pool order.
func RankCandidates(self models.Inventory, pool []models.Candidate, filter models.MatchFilter, now time.Time) ([]models.MatchCandidate, models.MatchStats) {
	ranked := make([]models.MatchCandidate, 0, len(pool))
	for _, candidate := range pool {
		if candidate.UserID == self.UserID || !passesFilter(candidate, filter) {
			continue
		}
		result := ScoreMatch(self, candidate.Inventory(), candidate.Rating)
		if result.Score <= 0 {
			continue
		}
		ranked = append(ranked, models.MatchCandidate{
			UserID:       candidate.UserID,
			Username:     candidate.Username,
			DisplayName:  candidate.DisplayName,
			Rating:       candidate.Rating,
			SessionCount: candidate.SessionCount,
			IsOnline:     IsOnline(candidate.LastActiveAt, now),
			LastSeen:     candidate.LastLogin,
			JoinedAt:     candidate.JoinedAt,
			MatchResult:  result,
		})
	}

	sort.SliceStable(ranked, lessFor(filter.Sort, ranked))

	stats := models.MatchStats{Total: len(ranked)}
	for _, m := range ranked {
		if m.Score >= perfectMatchThreshold {
			stats.PerfectMatches++
		}
		if m.IsOnline {
			stats.OnlineNow++
		}
	}
	return ranked, stats
}

func lessFor(key models.MatchSort, ranked []models.MatchCandidate) func(i, j int) bool {
	switch key {
	case models.MatchSortRating:
		return func(i, j int) bool { return ranked[i].Rating > ranked[j].Rating }
	case models.MatchSortSessions:
		return func(i, j int) bool { return ranked[i].SessionCount > ranked[j].SessionCount }
	case models.MatchSortRecent:
		return func(i, j int) bool { return recency(ranked[i]).After(recency(ranked[j])) }
	default:
		return func(i, j int) bool { return ranked[i].Score > ranked[j].Score }
	}
}

// recency is the later of last login and join time.
func recency(m models.MatchCandidate) time.Time {
	if m.LastSeen != nil && m.LastSeen.After(m.JoinedAt) {
		return *m.LastSeen
	}
	return m.JoinedAt
}

func passesFilter(c models.Candidate, f models.MatchFilter) bool {
	if f.MinRating != nil && c.Rating < *f.MinRating {
		return false
	}
	if f.Skill != "" && !hasSkill(c.Skills, func(r models.SkillRecord) bool { return strings.EqualFold(r.Name, f.Skill) }) {
		return false
	}
	if f.Level != "" && !hasSkill(c.Skills, func(r models.SkillRecord) bool { return r.Proficiency == f.Level }) {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		contains := func(s string) bool { return strings.Contains(strings.ToLower(s), needle) }
		if !contains(c.DisplayName) && !contains(c.Bio) &&
			!hasSkill(c.Skills, func(r models.SkillRecord) bool { return contains(r.Name) }) {
			return false
		}
	}
	return true
}

func hasSkill(records []models.SkillRecord, pred func(models.SkillRecord) bool) bool {
	for _, r := range records {
		if pred(r) {
			return true
		}
	}
	return false
}
