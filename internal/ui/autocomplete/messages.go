package autocomplete

// SubmitMsg asks the enclosing form to submit Query. It is produced only by
// activating a suggestion.
type SubmitMsg struct {
	Query string
}

// suggestionsMsg carries a settled suggestion request back to Update.
// token identifies the request; anything but the current token is stale.
type suggestionsMsg struct {
	token uint64
	query string
	items []string
	err   error
}
