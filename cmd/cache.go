package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the provider record cache",
}

var cacheLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List cached provider records",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		records, err := st.List(ctx)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("cache is empty")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "KEY\tNAME\tMETHOD\tPAGES\tUPDATED")
		for _, r := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
				r.Key, r.Name, r.Meta.Method, r.Meta.PagesScraped, r.UpdatedAt)
		}
		return w.Flush()
	},
}

var cacheRmCmd = &cobra.Command{
	Use:   "rm <provider name>",
	Short: "Invalidate one provider's cached record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		existed, err := st.Invalidate(ctx, args[0])
		if err != nil {
			return err
		}
		if !existed {
			return eris.Errorf("no cached record for %q", args[0])
		}
		fmt.Printf("removed cached record for %q\n", args[0])
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached record",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		n, err := st.Clear(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("removed %d cached records\n", n)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheLsCmd, cacheRmCmd, cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
