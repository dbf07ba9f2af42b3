package sdk

import "time"

// Incident is a reported safety incident.
type Incident struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Severity    int       `json:"severity"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// Incident statuses used by the backend.
const (
	StatusActive   = "active"
	StatusResolved = "resolved"
)

// ReportIncidentInput carries the fields for a new incident report.
// Type defaults to "other" and Severity to 3 when unset, matching the
// backend's defaults.
type ReportIncidentInput struct {
	UserID      string  `json:"user_id"`
	Name        string  `json:"name"`
	Type        string  `json:"type,omitempty"`
	Description string  `json:"description"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Severity    int     `json:"severity,omitempty"`
	Status      string  `json:"status,omitempty"`
}

// RedditPost is one social post attached to an enrichment report.
type RedditPost struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
	Subreddit string `json:"subreddit"`
	URL       string `json:"url"`
}

// Weather is the current-conditions block of an enrichment report.
type Weather struct {
	Temperature float64 `json:"temperature"`
	FeelsLike   float64 `json:"feels_like"`
	Humidity    int     `json:"humidity"`
	Pressure    int     `json:"pressure"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	WindSpeed   float64 `json:"wind_speed"`
	Clouds      int     `json:"clouds"`
	Location    string  `json:"location"`
}

// NewsItem is one syndicated news entry in an enrichment report.
type NewsItem struct {
	Title     string `json:"title"`
	Link      string `json:"link"`
	Published string `json:"published"`
}

// EnrichmentReport aggregates third-party context for an incident. Any
// block may be empty when its upstream source failed; Errors carries the
// per-source failure messages in that case.
type EnrichmentReport struct {
	IncidentID  int64             `json:"incident_id"`
	RedditPosts []RedditPost      `json:"reddit_posts"`
	WeatherData *Weather          `json:"weather_data"`
	NewsItems   []NewsItem        `json:"news_items"`
	Errors      map[string]string `json:"errors"`
}

// Place is one nearby emergency facility.
type Place struct {
	Name       string  `json:"name"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	DistanceKM float64 `json:"distance_km"`
	Type       string  `json:"type"`
}

// EscapeRoutePlan lists emergency facilities near a coordinate, each
// sorted nearest first.
type EscapeRoutePlan struct {
	Hospitals      []Place `json:"hospitals"`
	PoliceStations []Place `json:"police_stations"`
	FireStations   []Place `json:"fire_stations"`
}

// Feedback is a user-submitted feedback entry. All fields are required.
type Feedback struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Rating  string `json:"rating"`
	Message string `json:"message"`
}

// AuthCheck is the backend's confirmation that an attached token was
// accepted.
type AuthCheck struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
