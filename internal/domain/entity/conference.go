// Package entity defines the core domain entities and validation logic for the application.
// It contains the fundamental business objects such as Conference and ScoredConference,
// along with their validation rules and domain-specific errors.
package entity

// Conference represents one call-for-papers announcement extracted from the
// directory site. Title is the only required field; every other field is
// free text and empty when the announcement page did not carry it.
type Conference struct {
	Title       string
	Acronym     string
	When        string
	Where       string
	Deadline    string
	Description string
}

// Validate checks the Conference invariants.
// A conference without a title is undiscoverable and must not leave the parser.
func (c *Conference) Validate() error {
	if c.Title == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	return nil
}

// Relevance is the outcome of scoring one conference against an abstract.
// Score is conventionally 0-10; the scoring provider defines the scale and
// no range is enforced here.
type Relevance struct {
	Score         int
	Justification string
}

// ScoredConference pairs exactly one Conference with exactly one Relevance.
// Scoring is 1:1, never batched or split. Both parts are embedded so the
// writer reads a flat record (rec.Title, rec.Score).
type ScoredConference struct {
	Conference
	Relevance
}
