package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/arnavshah/planner-api-go/pkg/config"
	"github.com/arnavshah/planner-api-go/pkg/models"
	"github.com/arnavshah/planner-api-go/pkg/scheduler"
	"github.com/spf13/cobra"
)

func newPlanCmd() *cobra.Command {
	var file, committedFile, format string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Run the planner offline on a JSON request",
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "table" {
				return fmt.Errorf("unknown format %q (want json or table)", format)
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			var req models.PlanRequest
			if err := readJSON(cmd.InOrStdin(), file, &req); err != nil {
				return fmt.Errorf("reading request: %w", err)
			}
			committed := map[string][]models.CommittedSession{}
			if committedFile != "" {
				if err := readJSON(cmd.InOrStdin(), committedFile, &committed); err != nil {
					return fmt.Errorf("reading committed sessions: %w", err)
				}
			}

			plan, err := scheduler.NewScheduler(cfg.Planner).Prepare(req, nil)
			if err != nil {
				return err
			}
			resp, err := plan.Run(committed)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}
			return writeTable(out, resp)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "Plan request JSON file (- for stdin)")
	cmd.Flags().StringVar(&committedFile, "committed", "", "JSON file of committed sessions keyed by date")
	cmd.Flags().StringVarP(&format, "output", "o", "table", "Output format: table or json")
	return cmd
}

func readJSON(stdin io.Reader, path string, v any) error {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	return json.NewDecoder(r).Decode(v)
}

func writeTable(out io.Writer, resp models.PlanResponse) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tSTART\tEND\tHOURS\tTASK\tSUBJECT")
	for _, day := range resp.Schedule {
		for _, b := range day.Blocks {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%s\t%s\n", day.Date, b.StartTime, b.EndTime, b.Hours, b.Task, b.Subject)
		}
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "TASK\tSCORE\tESTIMATED\tALLOCATED\tSHORTFALL\tDEADLINE")
	for _, t := range resp.Tasks {
		deadline := t.Deadline
		if t.DeadlineSynthetic {
			deadline += " (assumed)"
		}
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\t%.2f\t%s\n",
			t.Task, t.PriorityScore, t.EstimatedHours, t.AllocatedHours, t.ShortfallHours, deadline)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(resp.Schedule) == 0 {
		_, err := fmt.Fprintln(out, "No study blocks could be placed.")
		return err
	}
	return nil
}
