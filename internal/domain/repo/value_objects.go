package repo

import (
	"fmt"
	"strings"
)

const (
	maxNameLength  = 100
	maxQueryLength = 256
)

// Owner is a value object representing a repository owner (user or organization)
type Owner struct {
	value string
}

// NewOwner creates a new Owner with validation
func NewOwner(owner string) (Owner, error) {
	owner = strings.TrimSpace(owner)

	if owner == "" {
		return Owner{}, fmt.Errorf("repository owner cannot be empty")
	}

	if len(owner) > maxNameLength {
		return Owner{}, fmt.Errorf("repository owner too long (max %d characters)", maxNameLength)
	}

	if strings.Contains(owner, "/") {
		return Owner{}, fmt.Errorf("repository owner cannot contain '/'")
	}

	return Owner{value: owner}, nil
}

func (o Owner) String() string {
	return o.value
}

func (o Owner) Equals(other Owner) bool {
	return o.value == other.value
}

// Name is a value object representing a repository name
type Name struct {
	value string
}

// NewName creates a new Name with validation
func NewName(name string) (Name, error) {
	name = strings.TrimSpace(name)

	if name == "" {
		return Name{}, fmt.Errorf("repository name cannot be empty")
	}

	if len(name) > maxNameLength {
		return Name{}, fmt.Errorf("repository name too long (max %d characters)", maxNameLength)
	}

	if strings.Contains(name, "/") {
		return Name{}, fmt.Errorf("repository name cannot contain '/'")
	}

	return Name{value: name}, nil
}

func (n Name) String() string {
	return n.value
}

func (n Name) Equals(other Name) bool {
	return n.value == other.value
}

// Query is a value object representing free-text repository search input
type Query struct {
	value string
}

// NewQuery creates a new Query with validation
func NewQuery(query string) (Query, error) {
	query = strings.TrimSpace(query)

	if query == "" {
		return Query{}, fmt.Errorf("search query cannot be empty")
	}

	if len(query) > maxQueryLength {
		return Query{}, fmt.Errorf("search query too long (max %d characters)", maxQueryLength)
	}

	return Query{value: query}, nil
}

func (q Query) String() string {
	return q.value
}

// Sort is the ordering requested from the upstream search
type Sort string

const (
	SortBestMatch Sort = ""
	SortStars     Sort = "stars"
)

// ParseSort maps user input onto a Sort; unknown values fall back to best match
func ParseSort(s string) Sort {
	if Sort(strings.ToLower(strings.TrimSpace(s))) == SortStars {
		return SortStars
	}
	return SortBestMatch
}
