package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/guardia/guardia/internal/config"
	"github.com/guardia/guardia/internal/domain/consultation"
	"github.com/guardia/guardia/internal/domain/patient"
	"github.com/guardia/guardia/internal/domain/triage"
	"github.com/guardia/guardia/internal/platform/db"
)

func triageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "triage",
		Short: "Triage classifier tools",
	}

	suggestCmd := &cobra.Command{
		Use:   "suggest <complaint>",
		Short: "Suggest a priority for a complaint",
		Long: `Runs the classifier offline, without a database.

Examples:
  guardia-server triage suggest "dolor de pecho desde anoche"
  guardia-server triage suggest --age 82 "tos persistente"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ageText, _ := cmd.Flags().GetString("age")
			asJSON, _ := cmd.Flags().GetBool("json")

			complaint := strings.Join(args, " ")
			s := consultation.NewSuggestion(complaint, triage.ParseAge(ageText))
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(s)
			}
			renderSuggestion(cmd.OutOrStdout(), s)
			return nil
		},
	}
	suggestCmd.Flags().String("age", "", "Patient age in years (blank or non-numeric means unknown)")
	suggestCmd.Flags().Bool("json", false, "Print the suggestion as JSON")
	cmd.AddCommand(suggestCmd)

	return cmd
}

func waitingListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "waiting-list",
		Short: "Print the current waiting list",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			patients := patient.NewService(patient.NewRepoPG(pool))
			svc := consultation.NewService(consultation.NewRepoPG(pool), patients, zerolog.Nop())
			items, err := svc.WaitingList(ctx)
			if err != nil {
				return err
			}
			renderWaitingList(cmd.OutOrStdout(), items, time.Now())
			return nil
		},
	}
}

func renderSuggestion(w io.Writer, s consultation.Suggestion) {
	age := "unknown"
	if s.Age != nil {
		age = fmt.Sprintf("%d", *s.Age)
	}
	fmt.Fprintf(w, "Priority:       %s (%s)\n", s.Priority, s.Priority.Name())
	fmt.Fprintf(w, "Age:            %s\n", age)
	fmt.Fprintf(w, "Vulnerable age: %t\n", s.VulnerableAge)
	fmt.Fprintf(w, "High matches:   %s\n", joinOrDash(s.Matched.High))
	fmt.Fprintf(w, "Medium matches: %s\n", joinOrDash(s.Matched.Medium))
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}

func renderWaitingList(w io.Writer, items []*consultation.Consultation, now time.Time) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Priority", "Patient", "Reason", "Physician", "Arrived", "Waiting"})
	for i, c := range items {
		t.AppendRow(table.Row{
			i + 1,
			c.Priority,
			c.PatientName,
			truncate(c.Reason, 40),
			c.Physician,
			c.ConsultedAt.Local().Format("15:04"),
			now.Sub(c.ConsultedAt).Truncate(time.Minute).String(),
		})
	}
	t.AppendFooter(table.Row{"", "", "", "", "", "Total", len(items)})
	t.Render()
}

func renderMigrationStatus(w io.Writer, statuses []db.MigrationStatus) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Version", "Name", "Status", "Applied at"})
	for _, s := range statuses {
		status, appliedAt := "pending", ""
		if s.Applied {
			status = "applied"
			if s.AppliedAt != nil {
				appliedAt = s.AppliedAt.Format(time.DateTime)
			}
		}
		t.AppendRow(table.Row{s.Version, s.Name, status, appliedAt})
	}
	t.Render()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
