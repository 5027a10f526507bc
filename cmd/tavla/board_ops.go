package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <board-id>",
	Short: "Report column alignment warnings and unmapped statuses for a board",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		defer rt.close()

		report, err := rt.svc.AnalyzeBoard(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		type columnRow struct {
			ID        string   `json:"id"`
			Name      string   `json:"name"`
			Position  int      `json:"position"`
			StatusIDs []string `json:"status_ids"`
			Warnings  []string `json:"warnings,omitempty"`
		}
		type statusRow struct {
			ID       string `json:"id"`
			Name     string `json:"name"`
			Category string `json:"category"`
		}
		out := struct {
			BoardID  string      `json:"board_id"`
			Columns  []columnRow `json:"columns"`
			Unmapped []statusRow `json:"unmapped_statuses"`
		}{BoardID: report.BoardID, Columns: []columnRow{}, Unmapped: []statusRow{}}
		for _, col := range report.Columns {
			out.Columns = append(out.Columns, columnRow{
				ID:        col.ID,
				Name:      col.Name,
				Position:  col.Position,
				StatusIDs: col.StatusIDs,
				Warnings:  report.Warnings[col.ID],
			})
		}
		for _, s := range report.Unmapped {
			out.Unmapped = append(out.Unmapped, statusRow{
				ID:       s.ID,
				Name:     s.Name,
				Category: string(s.Category),
			})
		}
		return printJSON(cmd, out)
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync <board-id>",
	Short: "Add columns for workflow statuses the board does not cover yet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		defer rt.close()

		removeOrphans := rt.cfg.Sync.RemoveOrphans
		if cmd.Flags().Changed("remove-orphans") {
			removeOrphans, _ = cmd.Flags().GetBool("remove-orphans")
		}

		result, err := rt.svc.Sync(cmd.Context(), args[0], removeOrphans)
		if err != nil {
			return err
		}
		rt.logger.Info("board sync complete", "board_id", args[0], "added", result.Added, "removed", result.Removed)
		return printJSON(cmd, map[string]int{"added": result.Added, "removed": result.Removed})
	},
}

var regenerateCmd = &cobra.Command{
	Use:   "regenerate <board-id>",
	Short: "Replace a board's columns with one column per workflow status",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		defer rt.close()

		preserve := rt.cfg.Sync.PreserveWIPLimits
		if cmd.Flags().Changed("preserve-wip") {
			preserve, _ = cmd.Flags().GetBool("preserve-wip")
		}

		result, err := rt.svc.Regenerate(cmd.Context(), args[0], preserve)
		if err != nil {
			return err
		}
		rt.logger.Info("board regenerate complete",
			"board_id", args[0],
			"columns_created", result.ColumnsCreated,
			"columns_removed", result.ColumnsRemoved)
		return printJSON(cmd, map[string]int{
			"columns_created": result.ColumnsCreated,
			"columns_removed": result.ColumnsRemoved,
		})
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <project-id> <from-status-id> <to-status-id>",
	Short: "Check whether the project workflow allows a direct transition",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		defer rt.close()

		validation := rt.svc.ValidateMove(cmd.Context(), args[0], args[1], args[2])
		out := map[string]any{"valid": validation.Valid}
		if validation.Reason != "" {
			out["error"] = validation.Reason
		}
		return printJSON(cmd, out)
	},
}

// printJSON writes one indented JSON document to the command's stdout.
func printJSON(cmd *cobra.Command, payload any) error {
	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
	return nil
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(regenerateCmd)
	rootCmd.AddCommand(validateCmd)

	syncCmd.Flags().Bool("remove-orphans", false, "also remove columns whose statuses left the workflow")
	regenerateCmd.Flags().Bool("preserve-wip", true, "carry WIP limits from same-named existing columns")
}
