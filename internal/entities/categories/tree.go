package categories

import "github.com/meridian-pos/meridian-admin/internal/resource"

// Node is one category with its children, assembled from flat rows.
type Node struct {
	Category
	Children []*Node
}

// BuildTree assembles the category hierarchy from flat rows, keeping
// input order among siblings. Rows pointing at a missing parent are
// treated as roots rather than dropped.
func BuildTree(rows []Category) []*Node {
	nodes := make(map[int64]*Node, len(rows))
	for _, row := range rows {
		nodes[row.ID] = &Node{Category: row}
	}
	var roots []*Node
	for _, row := range rows {
		node := nodes[row.ID]
		if row.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[*row.ParentID]
		if !ok || *row.ParentID == row.ID {
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}
	return roots
}

// ParentOptions returns the categories a node being edited may choose
// as parent: everything except itself and its own descendants, so a
// parent edit can never create a cycle. Pass zero for a new category.
func ParentOptions(rows []Category, editing int64) []resource.Option {
	excluded := map[int64]struct{}{}
	if editing > 0 {
		excluded[editing] = struct{}{}
		// Walk down until no new descendants appear.
		for {
			grew := false
			for _, row := range rows {
				if row.ParentID == nil {
					continue
				}
				if _, gone := excluded[row.ID]; gone {
					continue
				}
				if _, ok := excluded[*row.ParentID]; ok {
					excluded[row.ID] = struct{}{}
					grew = true
				}
			}
			if !grew {
				break
			}
		}
	}
	options := make([]resource.Option, 0, len(rows))
	for _, row := range rows {
		if _, gone := excluded[row.ID]; gone {
			continue
		}
		options = append(options, resource.Option{Value: row.ID, Label: row.Name})
	}
	return options
}
