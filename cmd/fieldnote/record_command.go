package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"fieldnote/internal/capture"
	"fieldnote/internal/interviews"
	"fieldnote/internal/logging"
)

type scheduledNote struct {
	offset  time.Duration
	content string
}

func newRecordCommand(ctx *commandContext) *cobra.Command {
	var (
		personaID  string
		exerciseID string
		title      string
		duration   time.Duration
		deviceName string
		notes      []string
		demo       bool
	)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a timed interview from the terminal",
		Long: `Record captures audio for the given duration, attaches any scheduled
notes, and saves the result as a new interview. Notes are given as
OFFSET:TEXT pairs, for example --note 30s:"participant hesitates".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(title) == "" {
				return fmt.Errorf("--title is required")
			}
			scheduled, err := parseScheduledNotes(notes)
			if err != nil {
				return err
			}

			cfg, st, art, err := ctx.openStores()
			if err != nil {
				return err
			}
			defer st.Close()

			if _, err := st.GetPersona(cmd.Context(), personaID); err != nil {
				return fmt.Errorf("look up persona %s: %w", personaID, err)
			}
			if _, err := st.GetExercise(cmd.Context(), exerciseID); err != nil {
				return fmt.Errorf("look up exercise %s: %w", exerciseID, err)
			}

			var device capture.Device
			if demo {
				device = &capture.ScriptedDevice{
					Chunks:   demoChunks(duration, time.Duration(cfg.Capture.ChunkIntervalMS)*time.Millisecond),
					Interval: time.Duration(cfg.Capture.ChunkIntervalMS) * time.Millisecond,
				}
			} else {
				name := deviceName
				if name == "" {
					name = cfg.Capture.Device
				}
				device = capture.NewCommandDevice(name)
			}

			out := cmd.OutOrStdout()
			manager := interviews.NewManager(st, art, logging.NewNop())
			session := capture.NewSession(capture.SessionOptions{
				Device:        device,
				Persister:     manager,
				PersonaID:     personaID,
				ExerciseID:    exerciseID,
				Title:         title,
				AudioName:     "capture.raw",
				MaxNoteLength: cfg.Capture.MaxNoteLength,
				TickInterval:  time.Duration(cfg.Capture.TickIntervalMS) * time.Millisecond,
				OnTick: func(elapsed time.Duration) {
					fmt.Fprintf(out, "\rRecording %s / %s ", elapsed.Round(time.Second), duration)
				},
			})

			if err := session.Start(cmd.Context()); err != nil {
				return fmt.Errorf("start recording: %w", err)
			}

			deadline := time.After(duration)
			pending := scheduled
		recordLoop:
			for {
				var next <-chan time.Time
				if len(pending) > 0 {
					next = time.After(pending[0].offset - session.Duration())
				}
				select {
				case <-cmd.Context().Done():
					session.Stop()
					return cmd.Context().Err()
				case <-next:
					note := pending[0]
					pending = pending[1:]
					if _, err := session.Annotate(note.content); err != nil {
						fmt.Fprintf(out, "\nnote dropped: %v\n", err)
					}
				case <-deadline:
					break recordLoop
				}
			}

			if err := session.Stop(); err != nil {
				return fmt.Errorf("stop recording: %w", err)
			}
			fmt.Fprintln(out)

			// Notes scheduled past the end still land at the final duration.
			for _, note := range pending {
				if _, err := session.Annotate(note.content); err != nil {
					fmt.Fprintf(out, "note dropped: %v\n", err)
				}
			}

			interview, err := session.Save(cmd.Context())
			if err != nil {
				return fmt.Errorf("save interview: %w", err)
			}
			fmt.Fprintf(out, "Saved interview %s (%q, %d notes)\n", interview.ID, interview.Title, interview.AnnotationCount)
			return nil
		},
	}

	cmd.Flags().StringVar(&personaID, "persona", "", "Persona id the interview belongs to")
	cmd.Flags().StringVar(&exerciseID, "exercise", "", "Exercise id the interview belongs to")
	cmd.Flags().StringVar(&title, "title", "", "Interview title")
	cmd.Flags().DurationVar(&duration, "duration", 30*time.Second, "How long to record")
	cmd.Flags().StringVar(&deviceName, "device", "", "Capture device (defaults to configured device)")
	cmd.Flags().StringArrayVar(&notes, "note", nil, "Scheduled note as OFFSET:TEXT (repeatable)")
	cmd.Flags().BoolVar(&demo, "demo", false, "Use a synthetic device instead of the system recorder")
	cmd.MarkFlagRequired("persona")
	cmd.MarkFlagRequired("exercise")
	cmd.MarkFlagRequired("title")

	return cmd
}

func parseScheduledNotes(values []string) ([]scheduledNote, error) {
	parsed := make([]scheduledNote, 0, len(values))
	for _, value := range values {
		offsetPart, content, found := strings.Cut(value, ":")
		if !found || strings.TrimSpace(content) == "" {
			return nil, fmt.Errorf("note %q must look like OFFSET:TEXT", value)
		}
		offset, err := time.ParseDuration(strings.TrimSpace(offsetPart))
		if err != nil {
			return nil, fmt.Errorf("note %q has an invalid offset: %w", value, err)
		}
		if offset < 0 {
			return nil, fmt.Errorf("note %q offset must not be negative", value)
		}
		parsed = append(parsed, scheduledNote{offset: offset, content: strings.TrimSpace(content)})
	}
	sort.SliceStable(parsed, func(i, j int) bool { return parsed[i].offset < parsed[j].offset })
	return parsed, nil
}

// demoChunks fabricates silence-sized chunks so demo runs produce an
// artifact comparable to a real capture.
func demoChunks(duration, interval time.Duration) [][]byte {
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	count := int(duration / interval)
	if count < 1 {
		count = 1
	}
	// 16 kHz mono S16_LE
	chunkBytes := int(interval.Seconds() * 16000 * 2)
	chunks := make([][]byte, count)
	for i := range chunks {
		chunks[i] = make([]byte, chunkBytes)
	}
	return chunks
}
