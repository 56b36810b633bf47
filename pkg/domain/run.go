package domain

import "time"

// Run is a journal record of one pipeline invocation
type Run struct {
	ID           int64
	CompanyName  string
	Relationship RelationshipType
	ArticleCount int // requested
	State        string
	FailedStage  string
	Error        string
	OutputPath   string
	Articles     int // articles in the rendered report
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Finished reports whether the run reached a terminal state
func (r Run) Finished() bool {
	return r.State == "done" || r.State == "failed"
}
