package comments

import "github.com/criadoresdevideo/videoclub/app/models"

// Node is one comment in the rendered two-level thread.
type Node struct {
	ID        uint    `json:"id"`
	UserID    uint    `json:"user_id"`
	UserName  string  `json:"user_name"`
	Text      string  `json:"text"`
	ParentID  *uint   `json:"parent_id,omitempty"`
	CreatedAt string  `json:"created_at"`
	Replies   []*Node `json:"replies"`
}

// BuildTree turns a flat, time-ordered comment list into roots with attached
// replies. Replies nest at most one level: a reply whose parent is itself a
// reply is flattened onto the nearest root's reply list, and a reply whose
// parent cannot be resolved at all (deleted parent) is promoted to a root.
// No record is ever dropped.
func BuildTree(rows []models.Comment) []*Node {
	nodes := make(map[uint]*Node, len(rows))
	parentOf := make(map[uint]*uint, len(rows))
	ordered := make([]*Node, 0, len(rows))

	for i := range rows {
		row := &rows[i]
		node := &Node{
			ID:        row.ID,
			UserID:    row.UserID,
			Text:      row.Text,
			ParentID:  row.ParentID,
			CreatedAt: row.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
			Replies:   []*Node{},
		}
		nodes[row.ID] = node
		parentOf[row.ID] = row.ParentID
		ordered = append(ordered, node)
	}

	roots := make([]*Node, 0, len(ordered))
	for _, node := range ordered {
		if node.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		root := resolveRoot(*node.ParentID, parentOf, nodes)
		if root == nil {
			// Orphaned reply: keep it visible as a root.
			roots = append(roots, node)
			continue
		}
		root.Replies = append(root.Replies, node)
	}
	return roots
}

// resolveRoot walks the parent chain up to the nearest root comment. Returns
// nil when the chain leaves the known set or cycles.
func resolveRoot(parentID uint, parentOf map[uint]*uint, nodes map[uint]*Node) *Node {
	seen := make(map[uint]struct{})
	current := parentID
	for {
		if _, ok := seen[current]; ok {
			return nil
		}
		seen[current] = struct{}{}

		next, known := parentOf[current]
		if !known {
			return nil
		}
		if next == nil {
			return nodes[current]
		}
		current = *next
	}
}
