package types

// Status is a type for the lifecycle status of a resource row in the database.
// It is used to soft delete resources and to decide whether they should be
// included in queries.
type Status string

const (
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
	StatusDeleted   Status = "deleted"
)

func (s Status) String() string {
	return string(s)
}
