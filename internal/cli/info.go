package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"daytodo/internal/model"
	"daytodo/internal/views"
)

func newStatsCmd(opts *rootOptions) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show completion counts for a day and overall",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			day := dayOrToday(date)
			ds := a.tracker.DayStats(day)
			all := a.tracker.GlobalStats()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d/%d done, %d remaining\n", day, ds.Completed, ds.Total, ds.Remaining())
			fmt.Fprintf(out, "all: %d/%d done (%.0f%%) across %d days\n",
				all.Completed, all.Total, all.CompletionRate*100, all.ActiveDayCount)
			return nil
		},
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "day as YYYY-MM-DD (default today)")
	return cmd
}

func newCalendarCmd(opts *rootOptions) *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show per-day completion markers for a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if month == "" {
				month = time.Now().Format("2006-01")
			}
			if _, err := time.Parse("2006-01", month); err != nil {
				return fmt.Errorf("month must be YYYY-MM: %w", err)
			}

			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			markers := a.tracker.CalendarMarkers()
			out := cmd.OutOrStdout()
			shown := 0
			for _, date := range views.SortedDates(markers) {
				if !strings.HasPrefix(date, month+"-") {
					continue
				}
				m := markers[date]
				line := date
				if m.HasTasks {
					line += fmt.Sprintf("  %d/%d  %s", m.Completed, m.Total, m.Status)
				}
				if m.Selected {
					line += "  (today)"
				}
				fmt.Fprintln(out, line)
				shown++
			}
			if shown == 0 {
				fmt.Fprintf(out, "no tasks in %s\n", month)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&month, "month", "m", "", "month as YYYY-MM (default this month)")
	return cmd
}

func newWeatherCmd(opts *rootOptions) *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "weather",
		Short: "Show the cached weather, refreshing it when older than an hour",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			if refresh || a.tracker.WeatherStale() {
				ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
				defer cancel()
				if _, err := a.tracker.RefreshExternalData(ctx); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "refresh failed: %v\n", err)
				}
			}
			w, fetchedAt, ok := a.tracker.Weather()
			if !ok {
				return fmt.Errorf("no weather available")
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatWeather(w, fetchedAt))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&refresh, "refresh", "r", false, "fetch even if the cached record is fresh")
	return cmd
}

func newThemeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [dark|light]",
		Short:     "Show or set the colour theme",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"dark", "light"},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			if len(args) == 1 {
				a.tracker.SetPreference(args[0] == "dark")
			}
			name := "light"
			if a.tracker.Preference() {
				name = "dark"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "theme: %s\n", name)
			return nil
		},
	}
}

func newClearCmd(opts *rootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every task, the theme and the weather cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			if !confirm(cmd, "Clear ALL data? This cannot be undone.", yes) {
				fmt.Fprintln(cmd.OutOrStdout(), "clear cancelled")
				return nil
			}
			a.tracker.ClearAll()
			fmt.Fprintln(cmd.OutOrStdout(), "all data cleared")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func formatWeather(w model.Weather, fetchedAt time.Time) string {
	return fmt.Sprintf("%s %s %s %d°C, humidity %d%%, wind %.1fm/s (as of %s)",
		w.Location, w.Icon, w.Condition, w.Temperature, w.Humidity, w.WindSpeed, fetchedAt.Format("15:04"))
}
