package domain

// Category is a user-defined topic the pipeline ingests content for.
// Categories are owned by the user-management layer; the core only reads them.
type Category struct {
	ID               int64
	UserID           int64
	Name             string
	Description      string
	Keywords         []string
	PreferredSources []string
	Subreddits       []string
	IsActive         bool
}
