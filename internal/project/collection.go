package project

import (
	"fmt"
	"strings"
	"time"
)

// Collection is the persisted set of projects: the active list plus the
// recycle bin of soft-deleted ones.
type Collection struct {
	Projects []*Project `json:"projects" yaml:"projects"`
	Deleted  []*Project `json:"deleted" yaml:"deleted"`
}

// NewCollection returns an empty collection with non-nil partitions
func NewCollection() *Collection {
	return &Collection{Projects: []*Project{}, Deleted: []*Project{}}
}

// Add appends a project to the active partition
func (c *Collection) Add(p *Project) error {
	if c.contains(p.ID) {
		return Invalidf("project %s already exists", p.ID)
	}
	c.Projects = append(c.Projects, p)
	return nil
}

// Find returns an active project by exact id
func (c *Collection) Find(id string) (*Project, error) {
	for _, p := range c.Projects {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
}

// FindAny looks in both the active list and the bin
func (c *Collection) FindAny(id string) (*Project, error) {
	if p, err := c.Find(id); err == nil {
		return p, nil
	}
	for _, p := range c.Deleted {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
}

// Resolve finds an active project by full id or unique id prefix
func (c *Collection) Resolve(ref string) (*Project, error) {
	return resolveIn(c.Projects, ref)
}

// ResolveDeleted finds a binned project by full id or unique id prefix
func (c *Collection) ResolveDeleted(ref string) (*Project, error) {
	return resolveIn(c.Deleted, ref)
}

func resolveIn(list []*Project, ref string) (*Project, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, Invalidf("project id is required")
	}

	var matches []*Project
	for _, p := range list {
		if p.ID == ref {
			return p, nil
		}
		if strings.HasPrefix(p.ID, ref) {
			matches = append(matches, p)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("project %s: %w", ref, ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		ids := make([]string, len(matches))
		for i, m := range matches {
			ids[i] = m.ShortID()
		}
		return nil, Invalidf("ambiguous project id %q matches %d projects: %s",
			ref, len(matches), strings.Join(ids, ", "))
	}
}

// SoftDelete moves an active project into the bin and stamps DeletedAt
func (c *Collection) SoftDelete(id string, now time.Time) (*Project, error) {
	for i, p := range c.Projects {
		if p.ID == id {
			c.Projects = append(c.Projects[:i], c.Projects[i+1:]...)
			p.DeletedAt = &now
			c.Deleted = append(c.Deleted, p)
			return p, nil
		}
	}
	return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
}

// Restore moves a binned project back into the active list
func (c *Collection) Restore(id string) (*Project, error) {
	for i, p := range c.Deleted {
		if p.ID == id {
			c.Deleted = append(c.Deleted[:i], c.Deleted[i+1:]...)
			p.DeletedAt = nil
			c.Projects = append(c.Projects, p)
			return p, nil
		}
	}
	return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
}

// Purge permanently removes a project from the bin
func (c *Collection) Purge(id string) error {
	for i, p := range c.Deleted {
		if p.ID == id {
			c.Deleted = append(c.Deleted[:i], c.Deleted[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("project %s: %w", id, ErrNotFound)
}

// EmptyBin drops every soft-deleted project and returns how many were removed
func (c *Collection) EmptyBin() int {
	n := len(c.Deleted)
	c.Deleted = []*Project{}
	return n
}

// RenameTag renames a tag on every project, active and binned
func (c *Collection) RenameTag(oldName, newName string) int {
	n := 0
	for _, p := range c.all() {
		if p.RenameTag(oldName, newName) {
			n++
		}
	}
	return n
}

// RemoveTag strips a tag from every project, active and binned
func (c *Collection) RemoveTag(tag string) int {
	n := 0
	for _, p := range c.all() {
		if p.RemoveTag(tag) {
			n++
		}
	}
	return n
}

// Filter returns active projects matching query
func (c *Collection) Filter(query string) []*Project {
	out := make([]*Project, 0, len(c.Projects))
	for _, p := range c.Projects {
		if p.Matches(query) {
			out = append(out, p)
		}
	}
	return out
}

func (c *Collection) all() []*Project {
	out := make([]*Project, 0, len(c.Projects)+len(c.Deleted))
	out = append(out, c.Projects...)
	return append(out, c.Deleted...)
}

func (c *Collection) contains(id string) bool {
	_, err := c.FindAny(id)
	return err == nil
}
