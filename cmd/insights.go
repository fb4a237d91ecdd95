package main

import (
	"context"
	"fmt"
	"os"

	"github.com/softcover/shelf/internal/models"
	"github.com/softcover/shelf/internal/shared"
	"github.com/softcover/shelf/internal/tasks"
	"github.com/urfave/cli/v3"
)

// InsightsActivities shows the recent activity feed.
func (r *Runner) InsightsActivities(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")

	activities, err := r.gateways.Insights.Activities(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to fetch activities: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(activities, true)
	}

	if len(activities) == 0 {
		return r.writePlain("No recent activity.\n")
	}

	for _, activity := range activities {
		r.writePlain("%s  %s", activity.CreatedAt, activity.Kind)
		if activity.Detail != "" {
			r.writePlain(": %s", activity.Detail)
		}
		r.writePlain("\n")
	}
	return nil
}

// InsightsGoals shows reading goals with completion.
func (r *Runner) InsightsGoals(ctx context.Context, cmd *cli.Command) error {
	goals, err := r.gateways.Insights.Goals(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch goals: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(goals, true)
	}

	if len(goals) == 0 {
		return r.writePlain("No reading goals set.\n")
	}

	for _, goal := range goals {
		r.writePlain("%4d  %d/%d books this %s (%d%%)\n",
			goal.ID, goal.Count, goal.Target, goal.Period, goal.Percent())
	}
	return nil
}

// InsightsSetGoal creates a reading goal, or replaces an existing one when
// --id is given.
func (r *Runner) InsightsSetGoal(ctx context.Context, cmd *cli.Command) error {
	userID, err := r.requireUser(ctx)
	if err != nil {
		return err
	}

	goal := models.Goal{
		UserID: userID,
		Target: cmd.Int("target"),
		Period: cmd.String("period"),
	}

	if cmd.IsSet("id") {
		goal.ID = cmd.Int("id")
		updated, err := r.gateways.Insights.UpdateGoal(ctx, goal)
		if err != nil {
			return fmt.Errorf("failed to update goal: %w", err)
		}
		return r.writePlain("✓ Goal %d updated: %d books this %s\n", updated.ID, updated.Target, updated.Period)
	}

	created, err := r.gateways.Insights.CreateGoal(ctx, goal)
	if err != nil {
		return fmt.Errorf("failed to create goal: %w", err)
	}

	r.writePlain("✓ Goal created: %d books this %s\n", created.Target, created.Period)
	return nil
}

// InsightsLogActivity records a reading activity event.
func (r *Runner) InsightsLogActivity(ctx context.Context, cmd *cli.Command) error {
	userID, err := r.requireUser(ctx)
	if err != nil {
		return err
	}

	activity := models.Activity{
		UserID: userID,
		BookID: cmd.Int("book-id"),
		Kind:   cmd.String("kind"),
		Detail: cmd.String("detail"),
	}

	recorded, err := r.gateways.Insights.AddActivity(ctx, activity)
	if err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}

	r.writePlain("✓ Activity recorded: %s\n", recorded.Kind)
	return nil
}

// InsightsStats shows aggregate reading statistics.
func (r *Runner) InsightsStats(ctx context.Context, cmd *cli.Command) error {
	stats, err := r.gateways.Insights.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch stats: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(stats, true)
	}

	if len(stats) == 0 {
		return r.writePlain("No statistics available.\n")
	}

	for _, stat := range stats {
		r.writePlain("%-24s %g", stat.Name, stat.Value)
		if stat.Unit != "" {
			r.writePlain(" %s", stat.Unit)
		}
		r.writePlain("\n")
	}
	return nil
}

// InsightsDump fetches the full backend state for debugging. Individual
// endpoint failures are recorded in the dump rather than aborting it.
func (r *Runner) InsightsDump(ctx context.Context, cmd *cli.Command) error {
	pretty := cmd.Bool("pretty")
	outputPath := cmd.String("output")

	userID, err := r.requireUser(ctx)
	if err != nil {
		return err
	}

	progress := make(chan tasks.ProgressUpdate, 8)
	go r.drainProgress(progress)

	dump, err := r.engine.Dump(ctx, progress, userID)
	close(progress)
	if err != nil {
		return fmt.Errorf("failed to dump state: %w", err)
	}

	for _, failure := range dump.Errors {
		r.logger.Warn("endpoint failed during dump", "endpoint", failure.Endpoint, "error", failure.Error)
	}

	if outputPath != "" {
		data, err := shared.MarshalJSON(dump, pretty)
		if err != nil {
			return fmt.Errorf("failed to marshal dump: %w", err)
		}
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write dump: %w", err)
		}
		return r.writePlain("✓ Dump saved to %s\n", outputPath)
	}

	return r.writeJSON(dump, pretty)
}
