package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/stitts-dev/pga-pick-tracker/internal/export"
	"github.com/stitts-dev/pga-pick-tracker/internal/services"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "tracker",
		Short:         "PGA one-and-done pick tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newTournamentCmd(),
		newFieldCmd(),
		newPlayerCmd(),
		newAddPickCmd(),
		newPicksCmd(),
		newResultCmd(),
		newClearSeasonCmd(),
		newWeeklyCheckCmd(),
		newImportHistoryCmd(),
		newRebuildHistoryCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, warnStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}
}

func newTournamentCmd() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "tournament",
		Short: "Show the tournament picks are being made for",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				fetch := a.fetcher.CurrentTournament
				if refresh {
					fetch = a.fetcher.RefreshNow
				}
				info, err := fetch(cmd.Context())
				if err != nil {
					return err
				}
				renderTournament(cmd.OutOrStdout(), info)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Fetch the schedule from ESPN before showing it")

	return cmd
}

func newFieldCmd() *cobra.Command {
	var (
		tournament string
		course     string
		strength   string
		expr       string
		limit      int
		minProb    float64
		showUsed   bool
		valueOnly  bool
		xlsxPath   string
	)

	cmd := &cobra.Command{
		Use:   "field",
		Short: "Rank the tournament field by win probability",
		Long: `Rank every player with statistics for the season.

Filter expressions see player, win_probability, value_score, fedex_rank, world_rank,
sg_total, recent_form, course_wins, course_top10s, used and the has_* presence flags.

Example: tracker field --strength strong --filter 'has_fedex_rank && fedex_rank <= 50' --limit 15`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				ctx := cmd.Context()
				if !cmd.Flags().Changed("limit") {
					limit = a.cfg.DefaultPlayersShown
				}
				if !cmd.Flags().Changed("min-prob") {
					minProb = a.cfg.MinWinProbability
				}
				if !cmd.Flags().Changed("show-used") {
					showUsed = a.cfg.ShowUsedPlayers
				}

				req := services.FieldRequest{
					Venue:             a.venue(ctx, tournament, course),
					Season:            a.cfg.SeasonYear,
					FieldStrength:     strength,
					MinWinProbability: minProb,
					HideUsed:          !showUsed,
					Filter:            expr,
					Limit:             limit,
				}
				if valueOnly {
					req.Limit = 0
				}

				field, err := a.fields.RankedField(ctx, req)
				if err != nil {
					return err
				}
				if valueOnly {
					field.Entries = a.fields.ValuePicks(field.Entries, a.cfg.ValuePickCriteria())
					if limit > 0 && len(field.Entries) > limit {
						field.Entries = field.Entries[:limit]
					}
				}

				renderField(cmd.OutOrStdout(), field)

				if xlsxPath == "" {
					return nil
				}
				picks, err := a.picks.ListPicks(ctx)
				if err != nil {
					return err
				}
				return writeWorkbook(xlsxPath, field, picks)
			})
		},
	}

	cmd.Flags().StringVar(&tournament, "tournament", "", "Tournament name (defaults to the current event)")
	cmd.Flags().StringVar(&course, "course", "", "Course name (defaults to the current event)")
	cmd.Flags().StringVar(&strength, "strength", "", "Field strength: elite, strong, average or weak")
	cmd.Flags().StringVar(&expr, "filter", "", "Filter expression over each ranked player")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum players to show, 0 for all")
	cmd.Flags().Float64Var(&minProb, "min-prob", 0, "Hide players below this win probability")
	cmd.Flags().BoolVar(&showUsed, "show-used", false, "Include players already picked this season")
	cmd.Flags().BoolVar(&valueOnly, "value", false, "Only show value picks")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Also write the field and picks to this workbook")

	return cmd
}

func writeWorkbook(path string, field *services.RankedField, picks []services.PickView) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.Write(f, field, picks); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func newPlayerCmd() *cobra.Command {
	var tournament, course string

	cmd := &cobra.Command{
		Use:   "player [name]",
		Short: "Show one player's scoring breakdown and results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				ctx := cmd.Context()
				detail, err := a.fields.PlayerDetail(ctx, args[0], a.venue(ctx, tournament, course), a.cfg.SeasonYear)
				if err != nil {
					return err
				}
				renderPlayer(cmd.OutOrStdout(), detail)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&tournament, "tournament", "", "Tournament name (defaults to the current event)")
	cmd.Flags().StringVar(&course, "course", "", "Course name (defaults to the current event)")

	return cmd
}

func newAddPickCmd() *cobra.Command {
	var tournament, date string

	cmd := &cobra.Command{
		Use:   "add-pick [player]",
		Short: "Record this week's pick",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				ctx := cmd.Context()

				var when *time.Time
				if date != "" {
					parsed, err := time.Parse("2006-01-02", date)
					if err != nil {
						return fmt.Errorf("invalid --date (use YYYY-MM-DD): %w", err)
					}
					when = &parsed
				}

				if tournament == "" {
					info, err := a.fetcher.CurrentTournament(ctx)
					if err != nil {
						return err
					}
					if info.Placeholder() {
						return errors.New("no current tournament, pass --tournament")
					}
					tournament = info.Name
					if when == nil {
						when = info.StartDate
					}
				}

				pick, err := a.picks.AddPick(ctx, args[0], tournament, when)
				if errors.Is(err, services.ErrPlayerAlreadyUsed) {
					used, _, _ := a.picks.PlayerUsedTournament(ctx, args[0])
					return fmt.Errorf("%s was already used at %s", args[0], used)
				}
				if err != nil {
					return err
				}

				fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render(fmt.Sprintf("Picked %s for %s", pick.PlayerName, pick.TournamentName)))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&tournament, "tournament", "", "Tournament name (defaults to the current event)")
	cmd.Flags().StringVar(&date, "date", "", "Tournament date, YYYY-MM-DD")

	return cmd
}

func newPicksCmd() *cobra.Command {
	var usedOnly bool

	cmd := &cobra.Command{
		Use:   "picks",
		Short: "List the season's picks and results",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				ctx := cmd.Context()
				out := cmd.OutOrStdout()

				if usedOnly {
					used, err := a.picks.UsedPlayerRecords(ctx)
					if err != nil {
						return err
					}
					t := newTable("Player", "Tournament", "Week")
					for _, u := range used {
						t.Row(u.PlayerName, u.TournamentName, u.WeekUsed)
					}
					fmt.Fprintln(out, t)
					return nil
				}

				picks, err := a.picks.ListPicks(ctx)
				if err != nil {
					return err
				}
				summary, err := a.picks.SeasonSummary(ctx)
				if err != nil {
					return err
				}
				renderPicks(out, picks, summary)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&usedOnly, "used", false, "List used players instead")

	return cmd
}

func newResultCmd() *cobra.Command {
	var earnings float64

	cmd := &cobra.Command{
		Use:   "result [player] [tournament] [finish]",
		Short: "Record how a pick finished",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				if err := a.picks.UpdatePickResult(cmd.Context(), args[0], args[1], args[2], earnings); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render(fmt.Sprintf("%s finished %s at %s", args[0], args[2], args[1])))
				return nil
			})
		},
	}

	cmd.Flags().Float64Var(&earnings, "earnings", 0, "Prize money won")

	return cmd
}

func newClearSeasonCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear-season",
		Short: "Delete every pick and used player",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to clear the season without --yes")
			}
			return withApp(func(a *app) error {
				if err := a.picks.ClearSeason(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("Season cleared"))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm clearing the season")

	return cmd
}

func newWeeklyCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "weekly-check",
		Short: "Check data freshness and picks remaining",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				status, err := a.fetcher.WeeklyCheck(cmd.Context())
				if err != nil {
					return err
				}
				renderWeeklyCheck(cmd.OutOrStdout(), status)
				return nil
			})
		},
	}
}

func newImportHistoryCmd() *cobra.Command {
	var sep string

	cmd := &cobra.Command{
		Use:   "import-history [file]",
		Short: "Import a historical results CSV and rebuild course history",
		Long: `Import historical results keyed by player, tournament and year.

Required columns: player_name, tournament_name, year. Optional: course_name,
finish_position, score_to_par, earnings, sg_total. Header names are matched loosely.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			delimiter, ok := services.ParseSeparator(strings.ToLower(sep))
			if !ok {
				return fmt.Errorf("unsupported separator %q", sep)
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			return withApp(func(a *app) error {
				report, err := a.history.ImportCSV(cmd.Context(), f, delimiter)
				if err != nil {
					return err
				}
				renderImport(cmd.OutOrStdout(), report)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&sep, "sep", ",", "Column separator: comma, semicolon, tab or pipe")

	return cmd
}

func newRebuildHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild-history",
		Short: "Recompute course-history summaries from the stored ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				count, err := a.history.RebuildCourseHistory(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render(fmt.Sprintf("Rebuilt %d course-history summaries", count)))
				return nil
			})
		},
	}
}
