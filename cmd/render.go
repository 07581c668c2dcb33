/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mytherion/client/types"
	"github.com/olekukonko/tablewriter"
)

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	return table
}

func renderProjects(w io.Writer, projects []types.Project, p types.Pagination) {
	if len(projects) == 0 {
		fmt.Fprintln(w, "No projects yet. Create one with `mytherion projects create --name <name>`.")
		return
	}
	table := newTable(w, "ID", "Name", "Description", "Updated")
	for _, project := range projects {
		table.Append([]string{
			formatID(project.ID),
			project.Name,
			truncate(project.Description, 60),
			formatDate(project.UpdatedAt),
		})
	}
	table.Render()
	renderFooter(w, p)
}

func renderProject(w io.Writer, project types.Project) {
	table := newTable(w, "Field", "Value")
	table.AppendBulk([][]string{
		{"ID", formatID(project.ID)},
		{"Name", project.Name},
		{"Description", project.Description},
		{"Created", formatDate(project.CreatedAt)},
		{"Updated", formatDate(project.UpdatedAt)},
	})
	table.Render()
}

func renderStats(w io.Writer, stats types.ProjectStats) {
	fmt.Fprintf(w, "%s: %d entities\n", stats.Name, stats.EntityCount)
	table := newTable(w, "Type", "Count")
	for _, t := range types.EntityTypes {
		table.Append([]string{string(t), strconv.FormatInt(stats.EntityCountByType[t], 10)})
	}
	table.Render()
}

func renderEntities(w io.Writer, entities []types.Entity, p types.Pagination, filtered bool) {
	if len(entities) == 0 {
		if filtered {
			fmt.Fprintln(w, "No entities match the current filters.")
			return
		}
		fmt.Fprintln(w, "No entities yet.")
		return
	}
	table := newTable(w, "ID", "Type", "Name", "Summary", "Tags")
	for _, e := range entities {
		table.Append([]string{
			formatID(e.ID),
			string(e.Type),
			e.Name,
			truncate(e.Summary, 60),
			strings.Join(e.Tags, ", "),
		})
	}
	table.Render()
	renderFooter(w, p)
}

func renderEntity(w io.Writer, e types.Entity) {
	table := newTable(w, "Field", "Value")
	table.AppendBulk([][]string{
		{"ID", formatID(e.ID)},
		{"Project", formatID(e.ProjectID)},
		{"Type", string(e.Type)},
		{"Name", e.Name},
		{"Summary", e.Summary},
		{"Description", e.Description},
		{"Tags", strings.Join(e.Tags, ", ")},
		{"Metadata", e.Metadata},
		{"Created", formatDate(e.CreatedAt)},
		{"Updated", formatDate(e.UpdatedAt)},
	})
	table.Render()
}

func renderUser(w io.Writer, user *types.User) {
	if user == nil {
		fmt.Fprintln(w, "Not logged in.")
		return
	}
	verified := "no"
	if user.EmailVerified {
		verified = "yes"
	}
	table := newTable(w, "Field", "Value")
	table.AppendBulk([][]string{
		{"ID", formatID(user.ID)},
		{"Username", user.Username},
		{"Email", user.Email},
		{"Role", user.Role},
		{"Verified", verified},
	})
	table.Render()
}

// renderFooter prints the one-based page position of a list.
func renderFooter(w io.Writer, p types.Pagination) {
	pages := max(p.TotalPages, 1)
	fmt.Fprintf(w, "Page %d of %d (%d total)", p.Page+1, pages, p.TotalElements)
	if p.HasNext() {
		fmt.Fprintf(w, ", next: --page %d", p.Page+1)
	}
	fmt.Fprintln(w)
}

func formatID(v int64) string {
	return strconv.FormatInt(v, 10)
}

func formatDate(t types.Timestamp) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(time.DateTime)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
