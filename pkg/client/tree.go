package client

import (
	"sort"

	"github.com/driftsocial/server/pkg/feedid"
	"github.com/driftsocial/server/pkg/structs"
)

// CommentTree holds one post's comments: root comments keyed by id in
// insertion order, each root owning its replies keyed by id in insertion
// order. Parent lookup during a merge is a map hit, not a scan. Newest-first
// is a display concern, see Display.
type CommentTree struct {
	roots    []*commentNode
	rootById map[feedid.ID]*commentNode
}

type commentNode struct {
	comment   structs.CommentView // Replies stays empty here; replies live below
	replies   []structs.CommentView
	replyById map[feedid.ID]bool
}

func newCommentTree(initial []structs.CommentView) *CommentTree {
	t := &CommentTree{
		roots:    []*commentNode{},
		rootById: map[feedid.ID]*commentNode{},
	}
	for _, c := range initial {
		c = normalizeComment(c)
		if c.ParentId != nil {
			continue // initial load nests replies under their roots
		}
		replies := c.Replies
		c.Replies = nil
		node := t.insertRoot(c)
		for _, r := range replies {
			r = normalizeComment(r)
			if node.replyById[r.Id] {
				continue
			}
			node.replies = append(node.replies, r)
			node.replyById[r.Id] = true
		}
	}
	return t
}

// merge applies one incoming comment per the reconciliation rules and
// reports whether the tree changed.
func (t *CommentTree) merge(c structs.CommentView) bool {
	c = normalizeComment(c)

	if c.ParentId != nil {
		// Reply: identity match on the root comment only. An unknown parent
		// means this client never loaded that root; drop the event.
		root, ok := t.rootById[*c.ParentId]
		if !ok {
			return false
		}
		if root.replyById[c.Id] {
			return false
		}
		c.Replies = nil
		root.replies = append(root.replies, c)
		root.replyById[c.Id] = true
		return true
	}

	// Root: same id replaces in place (keeps accumulated replies), new id
	// is inserted.
	if node, ok := t.rootById[c.Id]; ok {
		c.Replies = nil
		node.comment = c
		return true
	}
	c.Replies = nil
	t.insertRoot(c)
	return true
}

func (t *CommentTree) insertRoot(c structs.CommentView) *commentNode {
	node := &commentNode{
		comment:   c,
		replies:   []structs.CommentView{},
		replyById: map[feedid.ID]bool{},
	}
	t.roots = append(t.roots, node)
	t.rootById[c.Id] = node
	return node
}

func (t *CommentTree) Len() int {
	return len(t.roots)
}

// Roots returns the tree in insertion order with replies nested.
func (t *CommentTree) Roots() []structs.CommentView {
	out := make([]structs.CommentView, 0, len(t.roots))
	for _, node := range t.roots {
		c := node.comment
		c.Replies = append([]structs.CommentView{}, node.replies...)
		out = append(out, c)
	}
	return out
}

// Display returns the tree sorted newest-first at both levels, the order
// the feed renders.
func (t *CommentTree) Display() []structs.CommentView {
	out := t.Roots()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt > out[j].CreatedAt
	})
	for i := range out {
		sort.SliceStable(out[i].Replies, func(a, b int) bool {
			return out[i].Replies[a].CreatedAt > out[i].Replies[b].CreatedAt
		})
	}
	return out
}

// normalizeComment defaults missing fields so the tree never holds a
// partially populated node.
func normalizeComment(c structs.CommentView) structs.CommentView {
	if c.Replies == nil {
		c.Replies = []structs.CommentView{}
	}
	if c.ParentId != nil {
		// replies never carry their own replies
		c.Replies = []structs.CommentView{}
	}
	return c
}
