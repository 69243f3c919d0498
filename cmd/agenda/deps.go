package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abatilo/agenda/internal/deps"
	"github.com/abatilo/agenda/internal/output"
)

// depCmd implements 'agenda dep'.
func depCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dep <id> <blocker-id>",
		Short: "Mark a task as blocked by another",
		Args:  cobra.ExactArgs(2), //nolint:mnd // CLI takes 2 positional args
		Run: func(_ *cobra.Command, args []string) {
			e := getEngine()
			check(e.AddDependency(args[0], args[1]))
			printTask(e, e.Lookup(args[0]))
		},
	}
}

// undepCmd implements 'agenda undep'.
func undepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undep <id> <blocker-id>",
		Short: "Remove a dependency",
		Args:  cobra.ExactArgs(2), //nolint:mnd // CLI takes 2 positional args
		Run: func(_ *cobra.Command, args []string) {
			e := getEngine()
			check(e.RemoveDependency(args[0], args[1]))
			if t := e.Lookup(args[0]); t != nil {
				printTask(e, t)
				return
			}
			printOutput(formatter.FormatMessage(fmt.Sprintf("No dependency %s -> %s", args[0], args[1])))
		},
	}
}

// readyCmd implements 'agenda ready'.
func readyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ready",
		Short: "List unblocked tasks that can be worked on",
		Run: func(_ *cobra.Command, _ []string) {
			e := getEngine()
			printOutput(formatter.FormatTaskList(e.Graph().Ready()))
		},
	}
}

// graphCmd implements 'agenda graph'.
func graphCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "graph",
		Short: "Display the dependency graph",
		Run: func(_ *cobra.Command, _ []string) {
			e := getEngine()
			printOutput(formatter.FormatGraph(toGraphNodes(e.Graph().BuildTree())))
		},
	}
}

func toGraphNodes(tree []deps.TreeNode) []output.GraphNode {
	nodes := make([]output.GraphNode, len(tree))
	for i, n := range tree {
		nodes[i] = output.GraphNode{Task: n.Task, Children: toGraphNodes(n.Children)}
	}
	return nodes
}
