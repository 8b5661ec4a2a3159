package cli

import (
	"os"

	"github.com/fastgen-labs/fastgen/internal/scaffold"
	"github.com/spf13/cobra"
)

var (
	projectOutputDir string
	projectForce     bool
	appDir           string
	appForce         bool
)

func init() {
	createProjectCmd.Flags().StringVar(&projectOutputDir, "output-dir", "", "Parent directory for the project (default: current directory)")
	createProjectCmd.Flags().BoolVar(&projectForce, "force", false, "Overwrite existing files")
	rootCmd.AddCommand(createProjectCmd)

	createAppCmd.Flags().StringVar(&appDir, "dir", "", "Project root (default: current directory)")
	createAppCmd.Flags().BoolVar(&appForce, "force", false, "Overwrite an existing router file")
	rootCmd.AddCommand(createAppCmd)
}

// ─── create-project ────────────────────────────────────────────────

var createProjectCmd = &cobra.Command{
	Use:   "create-project <name>",
	Short: "Create a new FastAPI project",
	Long: `Create a new FastAPI project with a clean structure: main.py, settings/
(database, routing, middleware), routers/, routes.py, models, schemas, and an
Alembic placeholder.

Example:
  fastgen create-project shop`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parent := projectOutputDir
		if parent == "" {
			parent = "."
		}

		result, err := scaffold.CreateProject(parent, args[0], scaffold.Options{
			Force:   resolveForce(cmd, projectForce),
			Version: buildVersion,
		})
		if err != nil {
			return err
		}

		printResult(cmd, "project", result)
		printf(cmd, "\nNext steps:\n")
		printf(cmd, "  1. cd %s\n", result.OutputDir)
		printf(cmd, "  2. Add an app with 'fastgen create-app <name>'\n")
		printf(cmd, "  3. Run 'uvicorn main:app --reload'\n")
		return nil
	},
}

// ─── create-app ────────────────────────────────────────────────────

var createAppCmd = &cobra.Command{
	Use:   "create-app <name>",
	Short: "Create a new app (router) in the current project",
	Long: `Create routers/<name>.py and register "<name>": "/<name>" in routes.py.
Routers are discovered automatically at startup; edit routes.py to change a
prefix.

Example:
  fastgen create-app widgets`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := appDir
		if root == "" {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			root = wd
		}

		result, err := scaffold.CreateApp(root, args[0], scaffold.Options{
			Force:   resolveForce(cmd, appForce),
			Version: buildVersion,
		})
		if err != nil {
			return err
		}

		printResult(cmd, "app", &result.Result)
		if result.Registered {
			printf(cmd, "\nRegistered %s at %s\n", args[0], result.Prefix)
		} else {
			printf(cmd, "\n%s already registered at %s\n", args[0], result.Prefix)
		}
		return nil
	},
}

// ─── Helpers ───────────────────────────────────────────────────────

func printResult(cmd *cobra.Command, kind string, result *scaffold.Result) {
	printf(cmd, "Created %s at %s/\n", kind, result.OutputDir)
	for _, f := range result.Files {
		printf(cmd, "  %s\n", f)
	}
	if len(result.Skipped) > 0 {
		printf(cmd, "\nSkipped existing files (use --force to overwrite):\n")
		for _, f := range result.Skipped {
			printf(cmd, "  %s\n", f)
		}
	}
	if len(result.Warnings) > 0 {
		printf(cmd, "\nWarnings:\n")
		for _, w := range result.Warnings {
			printf(cmd, "  - %s\n", w)
		}
	}
}
