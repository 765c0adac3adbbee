package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventQueryIssued      EventType = "QueryIssued"
	EventSuggestionsShown EventType = "SuggestionsShown"
	EventSearchSubmitted  EventType = "SearchSubmitted"
	EventSearchCompleted  EventType = "SearchCompleted"
	EventSearchFailed     EventType = "SearchFailed"
	EventConfigLoaded     EventType = "ConfigLoaded"
	EventConfigSaved      EventType = "ConfigSaved"
	EventConfigReloaded   EventType = "ConfigReloaded"
	EventAppReady         EventType = "AppReady"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// QueryIssuedEvent is emitted when a suggestion request goes out
type QueryIssuedEvent struct {
	Query string
}

func (e QueryIssuedEvent) Type() EventType { return EventQueryIssued }

// SuggestionsShownEvent is emitted when a response is rendered in the dropdown
type SuggestionsShownEvent struct {
	Query string
	Count int
}

func (e SuggestionsShownEvent) Type() EventType { return EventSuggestionsShown }

// SearchSubmittedEvent is emitted when the search form is submitted
type SearchSubmittedEvent struct {
	Title string
}

func (e SearchSubmittedEvent) Type() EventType { return EventSearchSubmitted }

// SearchCompletedEvent is emitted when recommendations arrive
type SearchCompletedEvent struct {
	Title   string
	Results []Recommendation
}

func (e SearchCompletedEvent) Type() EventType { return EventSearchCompleted }

// SearchFailedEvent is emitted when the recommendation request fails
type SearchFailedEvent struct {
	Title string
	Err   error
}

func (e SearchFailedEvent) Type() EventType { return EventSearchFailed }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path    string
	BaseURL string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is written to disk
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }

// ConfigReloadedEvent is emitted when the watched config file changes
type ConfigReloadedEvent struct {
	Path string
}

func (e ConfigReloadedEvent) Type() EventType { return EventConfigReloaded }

// AppReadyEvent is emitted once the UI has its first window size
type AppReadyEvent struct{}

func (e AppReadyEvent) Type() EventType { return EventAppReady }
