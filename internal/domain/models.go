package domain

// Recommendation is a single movie returned by the recommend endpoint
type Recommendation struct {
	Title    string `json:"title"`
	Overview string `json:"overview,omitempty"`
	Poster   string `json:"poster,omitempty"`
	IMDbID   string `json:"imdb,omitempty"`
}

// IMDbURL returns the title page for the recommendation, or "" if unknown
func (r Recommendation) IMDbURL() string {
	if r.IMDbID == "" {
		return ""
	}
	return "https://www.imdb.com/title/" + r.IMDbID + "/"
}
