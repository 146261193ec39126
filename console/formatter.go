// Package console renders search and detail snapshots as plain text.
package console

import (
	"fmt"
	"strings"

	"github.com/s0up4200/reelcheck/detail"
	"github.com/s0up4200/reelcheck/filter"
	"github.com/s0up4200/reelcheck/movie"
	"github.com/s0up4200/reelcheck/omdb"
	"github.com/s0up4200/reelcheck/ratings"
	"github.com/s0up4200/reelcheck/search"
)

// ConsoleFormatter provides console output formatting for movies
type ConsoleFormatter struct {
	ShowIDs bool
}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{ShowIDs: true}
}

// Items turns a search snapshot into filterable items, attaching list
// ratings that have arrived.
func Items(st search.State) []filter.Item {
	items := make([]filter.Item, 0, len(st.Results))
	for _, r := range st.Results {
		set, ok := st.RatingsFor(r.ExternalID)
		items = append(items, filter.Item{Summary: r, Ratings: set, HasRatings: ok})
	}
	return items
}

// FormatSearch formats a search snapshot. items are the results to show,
// usually Items(st) after filtering.
func (f *ConsoleFormatter) FormatSearch(st search.State, items []filter.Item) string {
	switch st.Status {
	case search.StatusIdle:
		return "Type a movie title to search"
	case search.StatusLoading:
		return fmt.Sprintf("Searching for %q...", strings.TrimSpace(st.Query))
	case search.StatusError:
		return formatError(st.ErrorKind, st.ErrorMessage)
	}

	if st.Empty() {
		return fmt.Sprintf("No movies found for %q", strings.TrimSpace(st.Query))
	}
	if len(items) == 0 {
		return fmt.Sprintf("No movies matched the filter (%d hidden)", len(st.Results))
	}

	var sb strings.Builder

	sb.WriteString("\nMovie")
	if len(items) != 1 {
		sb.WriteString("s")
	}
	fmt.Fprintf(&sb, " (%d", len(items))
	if hidden := len(st.Results) - len(items); hidden > 0 {
		fmt.Fprintf(&sb, ", %d filtered", hidden)
	}
	sb.WriteString("):\n\n")

	for i, item := range items {
		isLast := i == len(items)-1
		f.formatItem(&sb, item, isLast)

		if !isLast {
			sb.WriteString("│\n")
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

func (f *ConsoleFormatter) formatItem(sb *strings.Builder, item filter.Item, isLast bool) {
	prefix := "├"
	indent := "│   "
	if isLast {
		prefix = "╰"
		indent = "    "
	}

	fmt.Fprintf(sb, "%s── %s\n", prefix, titleLine(item.Summary))

	if f.ShowIDs && item.ExternalID != "" {
		fmt.Fprintf(sb, "%sID: %s\n", indent, item.ExternalID)
	}
	if item.HasRatings {
		fmt.Fprintf(sb, "%s%s\n", indent, RatingsLine(item.Ratings))
	}
}

// FormatDetails formats a detail snapshot. link builds destination URLs;
// empty links are skipped.
func (f *ConsoleFormatter) FormatDetails(st detail.State, link func(movie.Destination) string) string {
	var sb strings.Builder

	switch st.Status {
	case detail.StatusIdle:
		return "No movie selected"
	case detail.StatusLoading:
		fmt.Fprintf(&sb, "Loading details for %s...\n", orDefault(st.Title(), st.ExternalID))
	case detail.StatusError:
		sb.WriteString(formatError(st.ErrorKind, st.ErrorMessage))
		sb.WriteString("\n")
	case detail.StatusReady:
		d := st.Details
		fmt.Fprintf(&sb, "\n%s\n", titleLine(d.Summary))
		if d.Director != "" {
			fmt.Fprintf(&sb, "├── Director: %s\n", d.Director)
		}
		if len(d.Cast) > 0 {
			fmt.Fprintf(&sb, "├── Cast: %s\n", strings.Join(d.Cast, ", "))
		}
		if d.PosterURL != "" {
			fmt.Fprintf(&sb, "├── Poster: %s\n", d.PosterURL)
		}
		if d.Plot != "" {
			fmt.Fprintf(&sb, "├── Plot: %s\n", d.Plot)
		}
		sb.WriteString("├── Ratings:\n")
		for _, e := range d.Ratings.Entries() {
			fmt.Fprintf(&sb, "│   %s %-17s %s\n", e.Icon, e.Label, e.Score)
		}
	}

	var links []string
	for _, dest := range movie.Destinations {
		if url := link(dest); url != "" {
			links = append(links, fmt.Sprintf("%s: %s", dest, url))
		}
	}
	if len(links) > 0 {
		sb.WriteString("╰── Links:\n")
		for _, l := range links {
			fmt.Fprintf(&sb, "    %s\n", l)
		}
	}

	return sb.String()
}

// RatingsLine renders a rating set on one line, e.g. "⭐ 85% 🍅 N/A ...".
func RatingsLine(set ratings.Set) string {
	entries := set.Entries()
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, fmt.Sprintf("%s %s", e.Icon, e.Score))
	}
	return strings.Join(parts, "  ")
}

func titleLine(s movie.Summary) string {
	if s.Year == "" {
		return s.Title
	}
	return fmt.Sprintf("%s (%s)", s.Title, s.Year)
}

func formatError(kind omdb.ErrorKind, message string) string {
	switch {
	case kind == omdb.KindConfig:
		return "Configuration required: " + message
	case kind.Retryable():
		return "Error: " + message + " (retry to try again)"
	default:
		return message
	}
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
