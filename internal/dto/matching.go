package dto

// MatchQuery mirrors the raw matching query string. Values are validated by the service.
type MatchQuery struct {
	Search    string `form:"search"`
	Skill     string `form:"skill"`
	Level     string `form:"level"`
	MinRating string `form:"min_rating"`
	Sort      string `form:"sort"`
}
