package service

import (
	"sort"

	"github.com/AdityaXD007/LearnXchange/internal/models"
)

const (
	perfectBaseScore = 95
	oneWayBaseScore  = 75
	oneWayPerSkill   = 5
	weakBaseScore    = 30
	maxMatchScore    = 100
)

// ScoreMatch scores how well candidate complements self.
//
// MutualTeaching holds what the candidate teaches that self wants to learn;
// MutualLearning holds what self teaches that the candidate wants to learn.
// The rating bonus is added after classification, so a perfect match is
// never scored below 95.
func ScoreMatch(self, candidate models.Inventory, candidateRating float64) models.MatchResult {
	if self.UserID != "" && self.UserID == candidate.UserID {
		return models.MatchResult{
			Classification: models.MatchExcluded,
			MutualTeaching: []string{},
			MutualLearning: []string{},
		}
	}

	mutualTeaching := intersect(self.Names(models.SkillRoleLearning), candidate.Names(models.SkillRoleTeaching))
	mutualLearning := intersect(self.Names(models.SkillRoleTeaching), candidate.Names(models.SkillRoleLearning))

	var (
		base           int
		classification models.MatchClassification
	)
	switch {
	case len(mutualTeaching) > 0 && len(mutualLearning) > 0:
		base, classification = perfectBaseScore, models.MatchPerfect
	case len(mutualTeaching) > 0 || len(mutualLearning) > 0:
		base = oneWayBaseScore + oneWayPerSkill*unionSize(mutualTeaching, mutualLearning)
		classification = models.MatchOneWay
	default:
		base, classification = weakBaseScore, models.MatchWeak
	}

	score := base + ratingBonus(candidateRating)
	if score > maxMatchScore {
		score = maxMatchScore
	}

	return models.MatchResult{
		Score:          score,
		Classification: classification,
		MutualTeaching: mutualTeaching,
		MutualLearning: mutualLearning,
	}
}

func ratingBonus(rating float64) int {
	switch {
	case rating >= 4.5:
		return 10
	case rating >= 4.0:
		return 5
	default:
		return 0
	}
}

// intersect returns the sorted common names.
func intersect(a, b map[string]struct{}) []string {
	out := make([]string, 0)
	for name := range a {
		if _, ok := b[name]; ok {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func unionSize(a, b []string) int {
	seen := make(map[string]struct{}, len(a)+len(b))
	for _, name := range a {
		seen[name] = struct{}{}
	}
	for _, name := range b {
		seen[name] = struct{}{}
	}
	return len(seen)
}
