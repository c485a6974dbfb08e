package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yusefsweeney/gitcore/plumbing"
	"github.com/yusefsweeney/gitcore/plumbing/object"
	"github.com/yusefsweeney/gitcore/storage/filesystem"
)

func newLsTreeCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ls-tree <tree-ish>",
		Short: "list a tree object's entries",
		Args:  cobra.ExactArgs(1),
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return lsTreeCmd(cmd.OutOrStdout(), cfg, args[0])
	}
	return cmd
}

// treeOIDOf follows oid to the tree it names, resolving one level of
// commit indirection the way "git ls-tree <commit>" does.
func treeOIDOf(repo *filesystem.Repository, oid plumbing.OID) (plumbing.OID, error) {
	typ, payload, err := repo.Object(oid)
	if err != nil {
		return plumbing.OID{}, err
	}
	switch typ {
	case plumbing.TreeObject:
		return oid, nil
	case plumbing.CommitObject:
		c, err := object.DecodeCommit(payload)
		if err != nil {
			return plumbing.OID{}, err
		}
		return c.Tree, nil
	default:
		return plumbing.OID{}, &plumbing.ErrWrongType{Want: "tree or commit", Got: typ.String()}
	}
}

func lsTreeCmd(out io.Writer, cfg *globalFlags, rev string) error {
	repo, err := cfg.openRepository()
	if err != nil {
		return err
	}
	return lsTree(out, repo, rev)
}

func lsTree(out io.Writer, repo *filesystem.Repository, rev string) error {
	oid, err := resolveRevision(repo, rev)
	if err != nil {
		return err
	}

	treeOID, err := treeOIDOf(repo, oid)
	if err != nil {
		return err
	}

	_, payload, err := repo.Object(treeOID)
	if err != nil {
		return err
	}
	t, err := object.DecodeTree(repo.Format(), payload)
	if err != nil {
		return err
	}

	for _, e := range t.Entries {
		fmt.Fprintf(out, "%06o %s %s\t%s\n", uint32(e.Mode), e.Type(), e.OID, e.Name)
	}
	return nil
}
