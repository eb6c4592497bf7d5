package models

import "time"

// MatchClassification labels the kind of overlap between two inventories.
type MatchClassification string

const (
	MatchPerfect  MatchClassification = "perfect"
	MatchOneWay   MatchClassification = "one_way"
	MatchWeak     MatchClassification = "weak"
	MatchExcluded MatchClassification = "excluded"
)

// MatchSort selects the ranking order.
type MatchSort string

const (
	MatchSortRelevance MatchSort = "relevance"
	MatchSortRating    MatchSort = "rating"
	MatchSortSessions  MatchSort = "sessions"
	MatchSortRecent    MatchSort = "recent"
)

// SkillRecord is the minimal view of a user skill used for matching.
type SkillRecord struct {
	UserID      string      `db:"user_id" json:"-"`
	Name        string      `db:"skill_name" json:"name"`
	Role        SkillRole   `db:"role" json:"role"`
	Proficiency Proficiency `db:"proficiency" json:"proficiency"`
}

// Inventory is a user's full set of skill records.
type Inventory struct {
	UserID  string
	Records []SkillRecord
}

// Names returns the distinct skill names held under role.
func (inv Inventory) Names(role SkillRole) map[string]struct{} {
	out := make(map[string]struct{})
	for _, rec := range inv.Records {
		if rec.Role == role {
			out[rec.Name] = struct{}{}
		}
	}
	return out
}

// Candidate is a pool entry: a user with a profile and their inventory.
type Candidate struct {
	UserID       string        `db:"user_id"`
	Username     string        `db:"username"`
	DisplayName  string        `db:"display_name"`
	Bio          string        `db:"bio"`
	Rating       float64       `db:"rating"`
	SessionCount int           `db:"session_count"`
	LastLogin    *time.Time    `db:"last_login"`
	JoinedAt     time.Time     `db:"joined_at"`
	LastActiveAt *time.Time    `db:"last_active_at"`
	Skills       []SkillRecord `db:"-"`
}

// Inventory returns the candidate's skills as an Inventory.
func (c Candidate) Inventory() Inventory {
	return Inventory{UserID: c.UserID, Records: c.Skills}
}

// MatchResult is the scorer output.
type MatchResult struct {
	Score          int                 `json:"score"`
	Classification MatchClassification `json:"classification"`
	MutualTeaching []string            `json:"mutual_teaching"`
	MutualLearning []string            `json:"mutual_learning"`
}

// MatchCandidate is a ranked, scored candidate. Never persisted.
type MatchCandidate struct {
	UserID       string     `json:"user_id"`
	Username     string     `json:"username"`
	DisplayName  string     `json:"display_name"`
	Rating       float64    `json:"rating"`
	SessionCount int        `json:"session_count"`
	IsOnline     bool       `json:"is_online"`
	LastSeen     *time.Time `json:"-"`
	JoinedAt     time.Time  `json:"-"`
	MatchResult
}

// MatchFilter holds validated ranker filters.
type MatchFilter struct {
	Search    string
	Skill     string
	Level     Proficiency
	MinRating *float64
	Sort      MatchSort
}

// MatchStats aggregates the ranked list.
type MatchStats struct {
	Total          int `json:"total"`
	PerfectMatches int `json:"perfect_matches"`
	OnlineNow      int `json:"online_now"`
}

// MatchPage is the full matching response.
type MatchPage struct {
	Matches  []MatchCandidate `json:"matches"`
	Stats    MatchStats       `json:"stats"`
	Teaching []string         `json:"teaching"`
	Learning []string         `json:"learning"`
}
