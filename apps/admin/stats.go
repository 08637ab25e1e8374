package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stratosedge/portal/core/application"
	"github.com/stratosedge/portal/core/profile"
)

type (
	count struct {
		Key   string
		Count int
	}

	applicationStats struct {
		Total      int
		Applicants int     // distinct emails
		ByCourse   []count // most applied first
		ByStatus   []count // in profile.Statuses order
	}
)

func (cli *commandLine) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize the submitted applications",
		RunE: func(cmd *cobra.Command, _ []string) error {
			apps, err := cli.appSvc.QueryAll(context.Background())
			if err != nil {
				return err
			}
			fmt.Fprint(cli.out, renderStats(computeStats(apps)))
			return nil
		},
	}
}

func computeStats(apps []application.Application) applicationStats {
	stats := applicationStats{Total: len(apps)}
	emails := make(map[string]bool)
	courses := make(map[string]int)
	statuses := make(map[profile.Status]int)
	for _, app := range apps {
		emails[app.Email] = true
		courses[app.CourseTitle]++
		statuses[app.Status]++
	}
	stats.Applicants = len(emails)

	for title, n := range courses {
		stats.ByCourse = append(stats.ByCourse, count{Key: title, Count: n})
	}
	sort.Slice(stats.ByCourse, func(i, j int) bool {
		if stats.ByCourse[i].Count != stats.ByCourse[j].Count {
			return stats.ByCourse[i].Count > stats.ByCourse[j].Count
		}
		return stats.ByCourse[i].Key < stats.ByCourse[j].Key
	})

	for _, st := range profile.Statuses {
		if n := statuses[st]; n > 0 {
			stats.ByStatus = append(stats.ByStatus, count{Key: string(st), Count: n})
		}
	}
	return stats
}

func renderStats(stats applicationStats) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Application Statistics"))
	b.WriteString("\n")

	if stats.Total == 0 {
		b.WriteString("No applications yet.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "%s\n", labelStyle.Render("Overview"))
	fmt.Fprintf(&b, "  Total Applications: %d\n", stats.Total)
	fmt.Fprintf(&b, "  Applicants: %d\n", stats.Applicants)

	fmt.Fprintf(&b, "\n%s\n", labelStyle.Render("By Course"))
	for _, c := range stats.ByCourse {
		fmt.Fprintf(&b, "  %s: %d (%.1f%%)\n", c.Key, c.Count, percent(c.Count, stats.Total))
	}

	fmt.Fprintf(&b, "\n%s\n", labelStyle.Render("By Applicant Status"))
	for _, c := range stats.ByStatus {
		fmt.Fprintf(&b, "  %s: %d (%.1f%%)\n", c.Key, c.Count, percent(c.Count, stats.Total))
	}
	return b.String()
}

func percent(n, total int) float64 {
	return float64(n) / float64(total) * 100
}
