package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fastgen-labs/fastgen/internal/routing"
	"github.com/spf13/cobra"
)

var routesDir string

func init() {
	routesCmd.Flags().StringVar(&routesDir, "dir", "", "Project root (default: current directory)")
	rootCmd.AddCommand(routesCmd)
}

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Show where each app is mounted",
	Long: `Evaluate the project's routers/ directory against routes.py and print
the prefix each app is mounted under, followed by the resulting route table.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root := routesDir
		if root == "" {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			root = wd
		}

		mounts, err := routing.Plan(root)
		if err != nil {
			return err
		}
		if len(mounts) == 0 {
			printf(cmd, "No apps found in %s/routers\n", root)
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "APP\tPREFIX\tTAG\tSOURCE")
		for _, m := range mounts {
			source := "default"
			if m.Custom {
				source = "routes.py"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.Module, m.Prefix, m.Tag, source)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		r, err := routing.Router(mounts)
		if err != nil {
			return err
		}
		lines, err := routing.Table(r)
		if err != nil {
			return err
		}
		printf(cmd, "\nRoutes:\n")
		for _, l := range lines {
			printf(cmd, "  %s\n", l)
		}
		return nil
	},
}
