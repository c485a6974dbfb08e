package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/yusefsweeney/gitcore/hash"
	"github.com/yusefsweeney/gitcore/plumbing"
	"github.com/yusefsweeney/gitcore/plumbing/object"
	"github.com/yusefsweeney/gitcore/storage/filesystem"
)

func newCatFileCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cat-file (-t|-s|-p) <object>",
		Short: "show an object's type, size, or pretty-printed content",
		Args:  cobra.ExactArgs(1),
	}

	typeOnly := cmd.Flags().BoolP("t", "t", false, "show the object's type")
	sizeOnly := cmd.Flags().BoolP("s", "s", false, "show the object's size")
	prettyPrint := cmd.Flags().BoolP("p", "p", false, "pretty-print the object's content")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return catFileCmd(cmd.OutOrStdout(), cfg, args[0], *typeOnly, *sizeOnly, *prettyPrint)
	}
	return cmd
}

func catFileCmd(out io.Writer, cfg *globalFlags, rev string, typeOnly, sizeOnly, prettyPrint bool) error {
	repo, err := cfg.openRepository()
	if err != nil {
		return err
	}
	return catFile(out, repo, rev, typeOnly, sizeOnly, prettyPrint)
}

func catFile(out io.Writer, repo *filesystem.Repository, rev string, typeOnly, sizeOnly, prettyPrint bool) error {
	n := 0
	for _, set := range []bool{typeOnly, sizeOnly, prettyPrint} {
		if set {
			n++
		}
	}
	if n != 1 {
		return fmt.Errorf("gitcore cat-file: exactly one of -t, -s, -p is required")
	}

	oid, err := resolveRevision(repo, rev)
	if err != nil {
		return err
	}

	typ, payload, err := repo.Object(oid)
	if err != nil {
		return err
	}

	switch {
	case typeOnly:
		fmt.Fprintln(out, typ.String())
	case sizeOnly:
		fmt.Fprintln(out, strconv.Itoa(len(payload)))
	case prettyPrint:
		return prettyPrintObject(out, repo.Format(), typ, payload)
	}
	return nil
}

func formatSignature(s object.Signature) string {
	return fmt.Sprintf("%s <%s> %d %s", s.Name, s.Email, s.When.Unix(), s.When.Format("-0700"))
}

func prettyPrintObject(out io.Writer, format hash.Format, typ plumbing.ObjectType, payload []byte) error {
	switch typ {
	case plumbing.CommitObject:
		c, err := object.DecodeCommit(payload)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "tree %s\n", c.Tree)
		for _, p := range c.Parents {
			fmt.Fprintf(out, "parent %s\n", p)
		}
		fmt.Fprintf(out, "author %s\n", formatSignature(c.Author))
		fmt.Fprintf(out, "committer %s\n", formatSignature(c.Committer))
		fmt.Fprintln(out)
		fmt.Fprint(out, c.Message)
	case plumbing.TreeObject:
		t, err := object.DecodeTree(format, payload)
		if err != nil {
			return err
		}
		for _, e := range t.Entries {
			fmt.Fprintf(out, "%06o %s %s\t%s\n", uint32(e.Mode), e.Type(), e.OID, e.Name)
		}
	case plumbing.BlobObject:
		_, err := out.Write(payload)
		return err
	default:
		return fmt.Errorf("gitcore cat-file: pretty-print not supported for %s", typ)
	}
	return nil
}
