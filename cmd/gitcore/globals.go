// Command gitcore is a thin inspection CLI over the library: enough
// verbs to prove every package is wired (object read, tree listing,
// three-way status, merge), never a full porcelain.
package main

import (
	"fmt"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yusefsweeney/gitcore/plumbing"
	"github.com/yusefsweeney/gitcore/storage/filesystem"
)

// globalFlags carries the root command's persistent flags down to every
// subcommand, the way Nivl-git-go's cfg/globalFlags threads -C through.
type globalFlags struct {
	gitDir  string
	verbose bool
}

func (g *globalFlags) openRepository() (*filesystem.Repository, error) {
	fs := osfs.New(g.gitDir)
	repo, err := filesystem.NewRepository(fs)
	if err != nil {
		return nil, fmt.Errorf("gitcore: could not open %s: %w", g.gitDir, err)
	}
	return repo, nil
}

func newRootCmd() *cobra.Command {
	cfg := &globalFlags{}

	cmd := &cobra.Command{
		Use:           "gitcore",
		Short:         "inspect a repository through the gitcore library",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if cfg.verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}
	cmd.PersistentFlags().StringVar(&cfg.gitDir, "git-dir", ".git", "path to the repository's git directory")
	cmd.PersistentFlags().BoolVarP(&cfg.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newCatFileCmd(cfg))
	cmd.AddCommand(newLsTreeCmd(cfg))
	cmd.AddCommand(newStatusCmd(cfg))
	cmd.AddCommand(newMergeTreeCmd(cfg))

	return cmd
}

// resolveRevision turns a command-line object name into an OID: a
// full-length hex OID, a bare HEAD/branch/tag name, or a full refs/...
// path. Short hex prefixes are not expanded against the object store.
func resolveRevision(repo *filesystem.Repository, rev string) (plumbing.OID, error) {
	if oid, err := plumbing.FromHex(rev); err == nil {
		return oid, nil
	}

	candidates := []plumbing.ReferenceName{
		plumbing.ReferenceName(rev),
		plumbing.NewBranchReferenceName(rev),
		plumbing.NewTagReferenceName(rev),
	}
	for _, name := range candidates {
		ref, err := repo.ResolveReference(name)
		if err == nil {
			return ref.OID(), nil
		}
		if _, ok := err.(*plumbing.ErrNotFound); !ok {
			return plumbing.OID{}, err
		}
	}
	return plumbing.OID{}, &plumbing.ErrNotFound{What: "revision", Key: rev}
}
