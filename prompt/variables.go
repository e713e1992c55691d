package prompt

import (
	"slices"
	"text/template/parse"
)

// requiredVariables walks a parse tree and collects the top-level names read
// from the root data. Inside range and with bodies dot is rebound, so only
// $-rooted references count there.
func requiredVariables(tree *parse.Tree) []string {
	if tree == nil || tree.Root == nil {
		return nil
	}
	seen := make(map[string]bool)
	walkNode(tree.Root, true, seen)
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func walkNode(node parse.Node, rootDot bool, seen map[string]bool) {
	switch n := node.(type) {
	case nil:
	case *parse.ListNode:
		if n == nil {
			return
		}
		for _, child := range n.Nodes {
			walkNode(child, rootDot, seen)
		}
	case *parse.ActionNode:
		walkNode(n.Pipe, rootDot, seen)
	case *parse.PipeNode:
		if n == nil {
			return
		}
		for _, cmd := range n.Cmds {
			walkNode(cmd, rootDot, seen)
		}
	case *parse.CommandNode:
		for _, arg := range n.Args {
			walkNode(arg, rootDot, seen)
		}
	case *parse.FieldNode:
		if rootDot && len(n.Ident) > 0 {
			seen[n.Ident[0]] = true
		}
	case *parse.VariableNode:
		if len(n.Ident) > 1 && n.Ident[0] == "$" {
			seen[n.Ident[1]] = true
		}
	case *parse.ChainNode:
		walkNode(n.Node, rootDot, seen)
	case *parse.IfNode:
		walkBranch(&n.BranchNode, rootDot, rootDot, seen)
	case *parse.RangeNode:
		walkBranch(&n.BranchNode, rootDot, false, seen)
	case *parse.WithNode:
		walkBranch(&n.BranchNode, rootDot, false, seen)
	case *parse.TemplateNode:
		walkNode(n.Pipe, rootDot, seen)
	}
}

func walkBranch(b *parse.BranchNode, rootDot, bodyRootDot bool, seen map[string]bool) {
	walkNode(b.Pipe, rootDot, seen)
	walkNode(b.List, bodyRootDot, seen)
	walkNode(b.ElseList, rootDot, seen)
}
