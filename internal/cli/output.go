// internal/cli/output.go

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"w3intel/internal/domain/community"
	domain "w3intel/internal/domain/insight"
)

// render writes v as indented JSON or as a human-readable table
func (o *rootOptions) render(w io.Writer, v interface{}) error {
	if o.output == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	switch v := v.(type) {
	case domain.Payload:
		writePayload(tw, v)
	case []community.Topic:
		writeTopics(tw, v)
	case domain.TopicDetail:
		writeTopicDetail(tw, v)
	case domain.UserProfile:
		writeUserProfile(tw, v)
	case domain.EngagementSummary:
		writeEngagement(tw, v)
	default:
		return fmt.Errorf("no text rendering for %T", v)
	}
	return tw.Flush()
}

func writePayload(w io.Writer, p domain.Payload) {
	fmt.Fprintf(w, "%s\n%s\n\n", p.Title, p.Description)

	if p.Type == domain.ChartText {
		fmt.Fprintln(w, p.TextContent)
		return
	}

	total := domain.Total(p.ChartData)
	fmt.Fprintln(w, "NAME\tVALUE\tSHARE")
	for _, pt := range p.ChartData {
		share := 0.0
		if total > 0 {
			share = float64(pt.Value) * 100 / float64(total)
		}
		fmt.Fprintf(w, "%s\t%d\t%.1f%%\n", pt.Name, pt.Value, share)
	}
}

func writeTopics(w io.Writer, topics []community.Topic) {
	fmt.Fprintln(w, "ID\tTITLE\tMENTIONS\tTREND\tSENTIMENT")
	for _, t := range topics {
		fmt.Fprintf(w, "%s\t%s\t%d\t%+.1f%%\t%.2f\n", t.ID, t.Title, t.Mentions, t.Trend, t.Sentiment)
	}
}

func writeTopicDetail(w io.Writer, d domain.TopicDetail) {
	fmt.Fprintf(w, "%s\t(%s)\n", d.Topic.Title, d.Category)
	fmt.Fprintf(w, "Mentions\t%d\n", d.Topic.Mentions)
	fmt.Fprintf(w, "Trend\t%s %.1f%%\n", d.Direction, d.TrendMagnitude)
	fmt.Fprintf(w, "Sentiment\t%s (%.2f)\n", d.SentimentLabel, d.Topic.Sentiment)
	fmt.Fprintf(w, "Tags\t%s\n", strings.Join(d.Topic.Tags, ", "))
	if d.Topic.Description != "" {
		fmt.Fprintf(w, "\n%s\n", d.Topic.Description)
	}

	fmt.Fprintf(w, "\nUsers discussing (%d)\n", len(d.Users))
	for _, u := range d.Users {
		fmt.Fprintf(w, "  %s\t%s\treputation %d\n", u.ID, u.Username, u.Reputation)
	}
}

func writeUserProfile(w io.Writer, p domain.UserProfile) {
	fmt.Fprintf(w, "%s\t%s\n", p.User.Username, p.User.Address)
	fmt.Fprintf(w, "Joined\t%s\n", p.User.JoinedAt.Format("Jan 2, 2006"))
	fmt.Fprintf(w, "Reputation\t%d\n", p.User.Reputation)
	fmt.Fprintf(w, "Contributions\t%d\n", p.User.Contributions)
	fmt.Fprintf(w, "\n%s\n", p.ValueStatement)

	fmt.Fprintf(w, "\nTopics (%d)\n", len(p.Topics))
	for _, t := range p.Topics {
		fmt.Fprintf(w, "  %s\t%s\n", t.ID, t.Title)
	}
}

func writeEngagement(w io.Writer, s domain.EngagementSummary) {
	fmt.Fprintf(w, "Conversations\t%d\n", s.ConversationCount)
	fmt.Fprintf(w, "Reactions\t%d (avg %.1f)\n", s.TotalReactions, s.AverageReactions)
	fmt.Fprintf(w, "Replies\t%d (avg %.1f)\n", s.TotalReplies, s.AverageReplies)

	if len(s.TopicDistribution) > 0 {
		fmt.Fprintln(w, "\nTOPIC\tCONVERSATIONS")
		for _, pt := range s.TopicDistribution {
			fmt.Fprintf(w, "%s\t%d\n", pt.Name, pt.Value)
		}
	}
}
