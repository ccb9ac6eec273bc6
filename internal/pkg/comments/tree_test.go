package comments

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/criadoresdevideo/videoclub/app/models"
)

func ptr(v uint) *uint { return &v }

func row(id uint, parent *uint) models.Comment {
	return models.Comment{
		ID:        id,
		VideoID:   1,
		UserID:    id,
		Text:      "c",
		ParentID:  parent,
		CreatedAt: time.Date(2026, 1, 1, 0, 0, int(id), 0, time.UTC),
	}
}

func TestBuildTreeTwoLevels(t *testing.T) {
	rows := []models.Comment{
		row(1, nil),
		row(2, ptr(1)),
		row(3, nil),
		row(4, ptr(3)),
	}

	tree := BuildTree(rows)

	assert.Len(t, tree, 2)
	assert.Equal(t, uint(1), tree[0].ID)
	assert.Len(t, tree[0].Replies, 1)
	assert.Equal(t, uint(2), tree[0].Replies[0].ID)
	assert.Equal(t, uint(3), tree[1].ID)
	assert.Len(t, tree[1].Replies, 1)
}

func TestBuildTreeFlattensReplyOfReply(t *testing.T) {
	// 3 replies to 2, which replies to root 1: both land on root 1
	rows := []models.Comment{
		row(1, nil),
		row(2, ptr(1)),
		row(3, ptr(2)),
	}

	tree := BuildTree(rows)

	assert.Len(t, tree, 1)
	assert.Len(t, tree[0].Replies, 2)
	assert.Equal(t, uint(2), tree[0].Replies[0].ID)
	assert.Equal(t, uint(3), tree[0].Replies[1].ID)
}

func TestBuildTreePromotesOrphans(t *testing.T) {
	// parent 99 was deleted; the reply stays visible as a root
	rows := []models.Comment{
		row(1, nil),
		row(2, ptr(99)),
	}

	tree := BuildTree(rows)

	assert.Len(t, tree, 2)
	assert.Equal(t, uint(2), tree[1].ID)
	assert.Empty(t, tree[1].Replies)
}

func TestBuildTreeSurvivesParentCycle(t *testing.T) {
	// corrupt data: 1 and 2 point at each other
	rows := []models.Comment{
		row(1, ptr(2)),
		row(2, ptr(1)),
	}

	tree := BuildTree(rows)

	// nothing dropped, both promoted
	assert.Len(t, tree, 2)
}

func TestBuildTreeKeepsChronologicalOrder(t *testing.T) {
	rows := []models.Comment{
		row(1, nil),
		row(2, nil),
		row(3, ptr(1)),
		row(4, ptr(1)),
	}

	tree := BuildTree(rows)

	assert.Equal(t, uint(1), tree[0].ID)
	assert.Equal(t, uint(2), tree[1].ID)
	assert.Equal(t, uint(3), tree[0].Replies[0].ID)
	assert.Equal(t, uint(4), tree[0].Replies[1].ID)
}

func TestBuildTreeEmpty(t *testing.T) {
	assert.Empty(t, BuildTree(nil))
}
