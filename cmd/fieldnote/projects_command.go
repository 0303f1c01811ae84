package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newProjectsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List research projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, _, err := ctx.openStores()
			if err != nil {
				return err
			}
			defer st.Close()

			projects, err := st.ListProjects(cmd.Context())
			if err != nil {
				return fmt.Errorf("list projects: %w", err)
			}
			if len(projects) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No projects yet")
				return nil
			}

			rows := make([][]string, 0, len(projects))
			for _, project := range projects {
				rows = append(rows, []string{
					project.ID,
					project.Name,
					strconv.Itoa(project.PersonaCount),
					project.CreatedAt.Local().Format("2006-01-02 15:04"),
				})
			}
			table := renderTable(
				[]column{col("ID"), col("Name"), numeric("Personas"), col("Created")},
				rows,
			)
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}
	return cmd
}
