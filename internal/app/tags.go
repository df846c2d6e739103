package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/ohare93/pacer/internal/project"
)

// Tags returns the known tag list.
func (a *App) Tags(ctx context.Context) ([]string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	tags, err := a.store.LoadTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}
	return tags, nil
}

// AddTag appends name to the tag list. Names are unique case-insensitively.
func (a *App) AddTag(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return project.Invalidf("tag name is required")
	}
	return a.updateTags(ctx, func(tags []string) ([]string, error) {
		if indexFold(tags, name) >= 0 {
			return nil, project.Invalidf("tag %q already exists", name)
		}
		return append(tags, name), nil
	})
}

// RenameTag renames a tag in the list and on every project carrying it.
// Renaming onto an existing tag merges the two. It returns the number of
// projects changed.
func (a *App) RenameTag(ctx context.Context, oldName, newName string) (int, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return 0, project.Invalidf("new tag name is required")
	}

	err := a.updateTags(ctx, func(tags []string) ([]string, error) {
		i := indexOf(tags, oldName)
		if i < 0 {
			return nil, fmt.Errorf("tag %q: %w", oldName, project.ErrNotFound)
		}
		if j := indexFold(tags, newName); j >= 0 && j != i {
			return append(tags[:i], tags[i+1:]...), nil
		}
		tags[i] = newName
		return tags, nil
	})
	if err != nil {
		return 0, err
	}

	n := 0
	err = a.update(ctx, func(c *project.Collection) error {
		n = c.RenameTag(oldName, newName)
		return nil
	})
	return n, err
}

// RemoveTag drops a tag from the list and from every project. It returns
// the number of projects changed.
func (a *App) RemoveTag(ctx context.Context, name string) (int, error) {
	err := a.updateTags(ctx, func(tags []string) ([]string, error) {
		i := indexOf(tags, name)
		if i < 0 {
			return nil, fmt.Errorf("tag %q: %w", name, project.ErrNotFound)
		}
		return append(tags[:i], tags[i+1:]...), nil
	})
	if err != nil {
		return 0, err
	}

	n := 0
	err = a.update(ctx, func(c *project.Collection) error {
		n = c.RemoveTag(name)
		return nil
	})
	return n, err
}

func (a *App) updateTags(ctx context.Context, fn func([]string) ([]string, error)) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	tags, err := a.store.LoadTags(ctx)
	if err != nil {
		return fmt.Errorf("load tags: %w", err)
	}
	tags, err = fn(tags)
	if err != nil {
		return err
	}
	if err := a.store.SaveTags(ctx, tags); err != nil {
		return fmt.Errorf("save tags: %w", err)
	}
	return nil
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

func indexFold(list []string, s string) int {
	for i, v := range list {
		if strings.EqualFold(v, s) {
			return i
		}
	}
	return -1
}
