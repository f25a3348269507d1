package btree

import (
	"fmt"
	"log/slog"

	"github.com/tuannm99/sqlens/internal/page"
)

// Node is one page of a logical tree. Interior nodes hold their
// children in cell-array order with the right-most child last, so an
// in-order walk visits entries in key order. A node that failed to
// decode keeps its page number and the error; siblings are unaffected.
type Node struct {
	PageNumber int
	// Page is nil when Err is set.
	Page     *page.Page
	Children []*Node
	Err      error
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Walk visits the node and its descendants depth-first in child order.
func (n *Node) Walk(visit func(*Node) bool) {
	if !visit(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(visit)
	}
}

// Errors collects the node's and descendants' failures, including
// per-cell decode failures inside otherwise healthy pages.
func (n *Node) Errors() []error {
	var errs []error
	n.Walk(func(node *Node) bool {
		if node.Err != nil {
			errs = append(errs, node.Err)
			return true
		}
		errs = append(errs, node.Page.DecodeErrors()...)
		return true
	})
	return errs
}

// Assemble builds the logical tree rooted at the given page number by
// recursive descent. The result is derived purely from the immutable
// file buffer, so concurrent assemblies never interfere; rebuilding is
// as cheap as keeping the result.
//
// Descent failures are localized: a bad child reference produces an
// error-marked node in place while the rest of the tree decodes. The
// returned node itself carries Err when the root page is unusable.
func Assemble(f *page.File, root int) *Node {
	return descend(f, root, make(map[int]bool))
}

func descend(f *page.File, pageNum int, visited map[int]bool) *Node {
	node := &Node{PageNumber: pageNum}

	if pageNum < 1 || pageNum > f.PageCount() {
		node.Err = fmt.Errorf("%w: %d of %d", page.ErrPageOutOfRange, pageNum, f.PageCount())
		return node
	}
	if visited[pageNum] {
		// Guards corrupted files; a well-formed tree never shares
		// pages between branches.
		node.Err = fmt.Errorf("%w: page %d", ErrCyclicPageReference, pageNum)
		return node
	}
	visited[pageNum] = true

	p, err := page.Decode(f, pageNum)
	if err != nil {
		slog.Debug("btree: page decode failed", "page", pageNum, "err", err)
		node.Err = err
		return node
	}
	node.Page = p

	if !p.Type().IsInterior() {
		return node
	}
	for _, slot := range p.Cells {
		switch cell := slot.Cell.(type) {
		case *page.TableInteriorCell:
			node.Children = append(node.Children, descend(f, cell.LeftChild.Value, visited))
		case *page.IndexInteriorCell:
			node.Children = append(node.Children, descend(f, cell.LeftChild.Value, visited))
		}
	}
	if p.Header.RightMostChild != nil {
		node.Children = append(node.Children, descend(f, p.Header.RightMostChild.Value, visited))
	}
	return node
}
