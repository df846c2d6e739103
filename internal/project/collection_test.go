package project

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCollection(t *testing.T, ids ...string) *Collection {
	t.Helper()
	c := NewCollection()
	for _, id := range ids {
		p := New("goal "+id, day(2026, 1, 1), day(2026, 1, 5), nil, []string{"Work"}, time.Now())
		p.ID = id
		require.NoError(t, c.Add(p))
	}
	return c
}

func TestCollectionAddRejectsDuplicateAcrossPartitions(t *testing.T) {
	c := newCollection(t, "aaa-1", "bbb-2")
	_, err := c.SoftDelete("bbb-2", time.Now())
	require.NoError(t, err)

	dup := &Project{ID: "bbb-2", Goal: "x"}
	assert.Error(t, c.Add(dup))
}

func TestCollectionResolve(t *testing.T) {
	c := newCollection(t, "abc-1", "abd-2", "xyz-3")

	p, err := c.Resolve("xyz")
	require.NoError(t, err)
	assert.Equal(t, "xyz-3", p.ID)

	p, err = c.Resolve("abc-1")
	require.NoError(t, err)
	assert.Equal(t, "abc-1", p.ID)

	_, err = c.Resolve("ab")
	assert.ErrorContains(t, err, "ambiguous")

	_, err = c.Resolve("zzz")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.Resolve("  ")
	assert.Error(t, err)
}

func TestCollectionSoftDeleteRestorePurge(t *testing.T) {
	c := newCollection(t, "a", "b", "c")
	now := time.Date(2026, 2, 2, 10, 0, 0, 0, time.Local)

	p, err := c.SoftDelete("b", now)
	require.NoError(t, err)
	require.NotNil(t, p.DeletedAt)
	assert.True(t, p.DeletedAt.Equal(now))
	assert.Len(t, c.Projects, 2)
	assert.Len(t, c.Deleted, 1)

	_, err = c.Find("b")
	assert.ErrorIs(t, err, ErrNotFound)
	found, err := c.FindAny("b")
	require.NoError(t, err)
	assert.Equal(t, "b", found.ID)

	restored, err := c.Restore("b")
	require.NoError(t, err)
	assert.Nil(t, restored.DeletedAt)
	assert.Len(t, c.Projects, 3)
	assert.Empty(t, c.Deleted)

	_, err = c.Restore("b")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.SoftDelete("a", now)
	require.NoError(t, err)
	require.NoError(t, c.Purge("a"))
	assert.ErrorIs(t, c.Purge("a"), ErrNotFound)
	_, err = c.FindAny("a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCollectionEmptyBin(t *testing.T) {
	c := newCollection(t, "a", "b", "c")
	_, _ = c.SoftDelete("a", time.Now())
	_, _ = c.SoftDelete("c", time.Now())

	assert.Equal(t, 2, c.EmptyBin())
	assert.Empty(t, c.Deleted)
	assert.NotNil(t, c.Deleted)
	assert.Len(t, c.Projects, 1)
	assert.Equal(t, 0, c.EmptyBin())
}

func TestCollectionTagPropagation(t *testing.T) {
	c := newCollection(t, "a", "b")
	_, _ = c.SoftDelete("b", time.Now())

	assert.Equal(t, 2, c.RenameTag("Work", "Job"))
	for _, p := range append(c.Projects, c.Deleted...) {
		assert.Equal(t, []string{"Job"}, p.Tags)
	}

	assert.Equal(t, 2, c.RemoveTag("Job"))
	assert.Equal(t, 0, c.RemoveTag("Job"))
}

func TestCollectionFilter(t *testing.T) {
	c := newCollection(t, "a", "b")
	c.Projects[0].Goal = "Visit Kyoto"

	got := c.Filter("kyoto")
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
	assert.Len(t, c.Filter(""), 2)
	assert.Len(t, c.Filter("work"), 2)
}
