// Package tags provides the tags command.
package tags

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/bbcode-lint/internal/cmd/cmdutil"
)

// NewCmdTags creates the tags command.
func NewCmdTags() *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List the known tags",
		Long:  `List the built-in tags and any custom tags from the config file.`,
		Example: `  # Show the tag catalogue
  bbl tags

  # Machine readable
  bbl tags -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := cmdutil.NewEnv(cmd)
			if err != nil {
				return err
			}
			return runTags(env)
		},
	}
}

func runTags(env *cmdutil.Env) error {
	reg, err := env.Config.BuildRegistry()
	if err != nil {
		return err
	}

	var rows [][]string
	for _, name := range reg.Names() {
		for _, d := range reg.Tags(name) {
			rows = append(rows, []string{
				d.Name,
				strings.ToLower(d.Shape.String()),
				list(d.Children),
				list(d.Parents),
				list(d.Terminators),
			})
		}
	}

	cmdutil.Renderer(env.Config, env.Stdout).RenderTable(
		[]string{"NAME", "SHAPE", "CHILDREN", "PARENTS", "TERMINATORS"}, rows)
	return nil
}

func list(s []string) string {
	if len(s) == 0 {
		return "-"
	}
	return strings.Join(s, ",")
}
