package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yusefsweeney/gitcore/storage/filesystem"
)

func newMergeTreeCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge-tree <base> <ours> <theirs>",
		Short: "perform a three-way tree merge without touching the working tree",
		Args:  cobra.ExactArgs(3),
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return mergeTreeCmd(cmd.OutOrStdout(), cfg, args[0], args[1], args[2])
	}
	return cmd
}

func mergeTreeCmd(out io.Writer, cfg *globalFlags, baseRev, oursRev, theirsRev string) error {
	repo, err := cfg.openRepository()
	if err != nil {
		return err
	}
	return mergeTree(out, repo, baseRev, oursRev, theirsRev)
}

func mergeTree(out io.Writer, repo *filesystem.Repository, baseRev, oursRev, theirsRev string) error {
	base, err := resolveRevision(repo, baseRev)
	if err != nil {
		return fmt.Errorf("gitcore merge-tree: base %q: %w", baseRev, err)
	}
	ours, err := resolveRevision(repo, oursRev)
	if err != nil {
		return fmt.Errorf("gitcore merge-tree: ours %q: %w", oursRev, err)
	}
	theirs, err := resolveRevision(repo, theirsRev)
	if err != nil {
		return fmt.Errorf("gitcore merge-tree: theirs %q: %w", theirsRev, err)
	}

	idx, err := repo.Index()
	if err != nil {
		return err
	}

	mergedOID, report, err := repo.MergeTree(filesystem.TreeMergeRequest{
		BaseOID:   base,
		OurOID:    ours,
		TheirOID:  theirs,
		Index:     idx,
		OurName:   oursRev,
		TheirName: theirsRev,
	})
	if err != nil {
		return err
	}

	if !report.HasConflict() {
		fmt.Fprintf(out, "merged tree %s\n", mergedOID)
		return nil
	}

	if err := repo.SetIndex(idx); err != nil {
		return err
	}

	printConflictPaths(out, "both modified", report.BothModified)
	printConflictPaths(out, "deleted by us", report.DeleteByUs)
	printConflictPaths(out, "deleted by them", report.DeleteByTheirs)
	fmt.Fprintf(out, "merged tree %s with conflicts staged\n", mergedOID)
	return nil
}

func printConflictPaths(out io.Writer, label string, paths []string) {
	for _, p := range paths {
		fmt.Fprintf(out, "%s:\t%s\n", label, p)
	}
}
