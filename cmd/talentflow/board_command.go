package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"talentflow/internal/api"
	"talentflow/internal/board"
	"talentflow/internal/pipeline"
	"talentflow/internal/stage"
	"talentflow/internal/view"
)

func newBoardCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "board <jobId>",
		Short: "Show applications grouped by stage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, report, err := ctx.loadBoard(cmd, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			fmt.Fprintln(out, jobHeadline(report))
			fmt.Fprintln(out, sourceStatusLine(report.Source, report.Degraded, colorize))

			partition := sess.board.Buckets()
			rows := make([][]string, 0, len(partition.Buckets))
			for _, bucket := range partition.Buckets {
				rows = append(rows, []string{
					stageLabel(sess.registry, bucket.StageID),
					strconv.Itoa(len(bucket.Applications)),
					candidateNames(bucket.Applications),
				})
			}
			fmt.Fprintln(out, tableSpec{
				Headers: []string{"Stage", "Count", "Applications"},
				Rows:    rows,
				Right:   []int{1},
			})
			fmt.Fprintf(out, "%d applications\n", partition.Total())
			return nil
		},
	}
}

type listOptions struct {
	query    string
	skillMin int
	skillMax int
	expMin   int
	expMax   int
	location string
	skills   []string
	sortKey  string
	desc     bool
	asc      bool
	jsonOut  bool
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:   "list <jobId>",
		Short: "List applications with filters and sorting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			criteria := criteriaFromFlags(cmd, opts)
			sess, report, err := ctx.loadBoard(cmd, args[0])
			if err != nil {
				return err
			}
			if err := applySortFlags(cmd, sess, opts); err != nil {
				return err
			}
			sess.board.SetCriteria(criteria)
			apps := sess.board.View()

			if opts.jsonOut {
				return writeJSON(cmd, api.ApplicationListResponse{Items: api.FromApplications(apps)})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, jobHeadline(report))
			fmt.Fprintln(out, sourceStatusLine(report.Source, report.Degraded, shouldColorize(out)))
			rows := make([][]string, 0, len(apps))
			for _, app := range apps {
				years, ok := view.ParseExperience(app.Experience)
				exp := strconv.Itoa(years)
				if !ok {
					exp = "0*"
				}
				rows = append(rows, []string{
					app.ID,
					app.Candidate.Name,
					stageLabel(sess.registry, app.Status),
					strconv.Itoa(app.SkillMatch),
					exp,
					strconv.Itoa(view.CompositeScore(app)),
					app.AppliedDate.Format("2006-01-02"),
				})
			}
			headers := []string{"ID", "Name", "Stage", "Skill", "Years", "Score", "Applied"}
			fmt.Fprintln(out, tableSpec{Headers: headers, Rows: rows, Right: []int{3, 4, 5}})
			fmt.Fprintf(out, "%d of %d applications\n", len(apps), sess.board.Store().Len())
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.query, "query", "q", "", "Match name, email, or skill (case-insensitive)")
	flags.IntVar(&opts.skillMin, "skill-min", 0, "Minimum skill match (0-100)")
	flags.IntVar(&opts.skillMax, "skill-max", 100, "Maximum skill match (0-100)")
	flags.IntVar(&opts.expMin, "exp-min", 0, "Minimum years of experience")
	flags.IntVar(&opts.expMax, "exp-max", 0, "Maximum years of experience")
	flags.StringVar(&opts.location, "location", "", "Location substring")
	flags.StringSliceVar(&opts.skills, "skill", nil, "Required skill (repeatable)")
	flags.StringVar(&opts.sortKey, "sort", "", "Sort key: "+joinSortKeys())
	flags.BoolVar(&opts.desc, "desc", false, "Sort descending")
	flags.BoolVar(&opts.asc, "asc", false, "Sort ascending")
	flags.BoolVar(&opts.jsonOut, "json", false, "Output JSON")
	cmd.MarkFlagsMutuallyExclusive("asc", "desc")
	return cmd
}

// criteriaFromFlags only sets bounds the user actually passed, so defaults
// never filter anything out.
func criteriaFromFlags(cmd *cobra.Command, opts listOptions) view.Criteria {
	flags := cmd.Flags()
	criteria := view.Criteria{
		Query:    opts.query,
		Location: opts.location,
		Skills:   opts.skills,
	}
	if flags.Changed("skill-min") {
		criteria.SkillMatch.Min = &opts.skillMin
	}
	if flags.Changed("skill-max") {
		criteria.SkillMatch.Max = &opts.skillMax
	}
	if flags.Changed("exp-min") {
		criteria.Experience.Min = &opts.expMin
	}
	if flags.Changed("exp-max") {
		criteria.Experience.Max = &opts.expMax
	}
	return criteria
}

func applySortFlags(cmd *cobra.Command, sess *session, opts listOptions) error {
	flags := cmd.Flags()
	if !flags.Changed("sort") && !opts.desc && !opts.asc {
		return nil
	}
	keyValue := opts.sortKey
	if !flags.Changed("sort") {
		keyValue = sess.cfg.Board.DefaultSort
	}
	key, err := view.ParseSortKey(keyValue)
	if err != nil {
		return err
	}
	dir, err := view.ParseDirection(sess.cfg.Board.DefaultDirection)
	if err != nil {
		return err
	}
	switch {
	case opts.desc:
		dir = view.Desc
	case opts.asc:
		dir = view.Asc
	}
	sess.board.SetSort(key, dir)
	return nil
}

func joinSortKeys() string {
	keys := view.SortKeys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

func jobHeadline(report board.LoadReport) string {
	if !report.HasJob || report.Job.Title == "" {
		return fmt.Sprintf("Job %s", report.JobID)
	}
	if report.Job.Company == "" {
		return fmt.Sprintf("%s (%s)", report.Job.Title, report.JobID)
	}
	return fmt.Sprintf("%s at %s (%s)", report.Job.Title, report.Job.Company, report.JobID)
}

func stageLabel(registry *stage.Registry, id string) string {
	if s, ok := registry.Lookup(id); ok {
		return s.Label
	}
	if id == stage.Unknown {
		return "Unknown"
	}
	return id + " (unknown)"
}

func candidateNames(apps []pipeline.Application) string {
	names := make([]string, 0, len(apps))
	for _, app := range apps {
		name := app.Candidate.Name
		if name == "" {
			name = app.ID
		}
		names = append(names, name)
	}
	return strings.Join(names, ", ")
}
