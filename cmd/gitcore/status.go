package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yusefsweeney/gitcore/internal/merkletrie"
	"github.com/yusefsweeney/gitcore/plumbing"
	"github.com/yusefsweeney/gitcore/storage/filesystem"
)

func newStatusCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "show differences between HEAD, the index, and the working tree",
		Args:  cobra.NoArgs,
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return statusCmd(cmd.OutOrStdout(), cfg)
	}
	return cmd
}

func statusCmd(out io.Writer, cfg *globalFlags) error {
	repo, err := cfg.openRepository()
	if err != nil {
		return err
	}
	return status(out, repo)
}

func status(out io.Writer, repo *filesystem.Repository) error {
	stage, err := repo.STAGE()
	if err != nil {
		return err
	}
	workdir := repo.WORKDIR()

	head, err := repo.ResolveReference(plumbing.HEAD)

	var staged merkletrie.Changes
	var noCommitsYet bool
	switch {
	case err == nil:
		tree, terr := repo.TREE(head.OID())
		if terr != nil {
			return terr
		}
		staged, err = merkletrie.DiffTree(tree, stage, merkletrie.ByteHashEqual)
		if err != nil {
			return fmt.Errorf("gitcore status: diffing HEAD against the index: %w", err)
		}
	case isNotFound(err):
		// No HEAD yet: every staged entry is new, there's no prior tree
		// to diff against.
		noCommitsYet = true
	default:
		return err
	}

	unstaged, err := merkletrie.DiffTree(stage, workdir, merkletrie.ByteHashEqual)
	if err != nil {
		return fmt.Errorf("gitcore status: diffing the index against the working tree: %w", err)
	}

	idx, err := repo.Index()
	if err != nil {
		return err
	}

	if len(staged) == 0 && len(unstaged) == 0 && !(noCommitsYet && len(idx.Entries) > 0) {
		fmt.Fprintln(out, "nothing to commit, working tree clean")
		return nil
	}

	if noCommitsYet {
		if len(idx.Entries) > 0 {
			fmt.Fprintln(out, "Changes to be committed:")
			for _, e := range idx.Entries {
				fmt.Fprintf(out, "\tInsert:\t%s\n", e.Name)
			}
		}
	} else if len(staged) > 0 {
		fmt.Fprintln(out, "Changes to be committed:")
		printChanges(out, staged)
	}
	if len(unstaged) > 0 {
		fmt.Fprintln(out, "Changes not staged for commit:")
		printChanges(out, unstaged)
	}
	return nil
}

func isNotFound(err error) bool {
	_, ok := err.(*plumbing.ErrNotFound)
	return ok
}

func printChanges(out io.Writer, changes merkletrie.Changes) {
	for _, c := range changes {
		action, err := c.Action()
		if err != nil {
			continue
		}
		path := c.To.String()
		if path == "" {
			path = c.From.String()
		}
		fmt.Fprintf(out, "\t%s:\t%s\n", action, path)
	}
}
