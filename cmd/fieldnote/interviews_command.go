package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newInterviewsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interviews <exercise-id>",
		Short: "List interviews recorded for an exercise",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, _, err := ctx.openStores()
			if err != nil {
				return err
			}
			defer st.Close()

			exerciseID := args[0]
			if _, err := st.GetExercise(cmd.Context(), exerciseID); err != nil {
				return fmt.Errorf("look up exercise %s: %w", exerciseID, err)
			}

			interviews, err := st.ListInterviews(cmd.Context(), exerciseID)
			if err != nil {
				return fmt.Errorf("list interviews: %w", err)
			}
			if len(interviews) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No interviews recorded for this exercise")
				return nil
			}

			rows := make([][]string, 0, len(interviews))
			for _, interview := range interviews {
				rows = append(rows, []string{
					interview.ID,
					interview.Title,
					string(interview.Status),
					strconv.Itoa(interview.AnnotationCount),
					yesNo(interview.AudioRef != ""),
					interview.CreatedAt.Local().Format("2006-01-02 15:04"),
				})
			}
			table := renderTable(
				[]column{col("ID"), col("Title"), col("Status"), numeric("Notes"), col("Audio"), col("Created")},
				rows,
			)
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}
	return cmd
}
