package main

import (
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/slack-go/slack"
)

// Notifier posts job summaries to a Slack channel. A nil Notifier is a
// no-op, so callers never have to branch on whether Slack is configured.
type Notifier struct {
	api       *slack.Client
	channelID string
}

func NewNotifier(cfg Config) *Notifier {
	if cfg.SlackBotToken == "" || cfg.SlackChannelID == "" {
		log.Println("Slack notifications disabled (slack_bot_token or slack_channel_id not set)")
		return nil
	}
	return &Notifier{
		api:       slack.New(cfg.SlackBotToken),
		channelID: cfg.SlackChannelID,
	}
}

func (n *Notifier) PostSummary(text string) {
	if n == nil || text == "" {
		return
	}
	_, _, err := n.api.PostMessage(n.channelID, slack.MsgOptionText(text, false))
	if err != nil {
		log.Printf("Slack post error: %v", err)
	}
}

// FormatPredictionSheet renders every run for an issue as a compact
// message, one line per strategy with zero-padded picks.
func FormatPredictionSheet(db *sql.DB, issueNo string) (string, error) {
	runs, err := GetRunsForIssue(db, issueNo)
	if err != nil {
		return "", err
	}
	if len(runs) == 0 {
		return "", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Predictions for issue %s:\n", issueNo)
	for _, run := range runs {
		picks, err := GetPicksForRun(db, run.ID)
		if err != nil {
			return "", err
		}
		nums := make([]string, 0, len(picks))
		for _, p := range picks {
			nums = append(nums, fmt.Sprintf("%02d", p.Number))
		}
		fmt.Fprintf(&b, "  %-16s %s  special %02d\n", run.Strategy, strings.Join(nums, " "), run.SpecialNumber)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// FormatReviewSummary renders settled runs for an issue against the
// actual draw.
func FormatReviewSummary(db *sql.DB, issueNo string) (string, error) {
	draw, ok, err := GetDrawByIssue(db, issueNo)
	if err != nil {
		return "", err
	}
	if !ok {
		return fmt.Sprintf("Issue %s has no stored draw yet.", issueNo), nil
	}

	runs, err := GetRunsForIssue(db, issueNo)
	if err != nil {
		return "", err
	}

	nums := make([]string, 0, len(draw.Numbers))
	for _, n := range draw.Numbers {
		nums = append(nums, fmt.Sprintf("%02d", n))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Issue %s drew %s special %02d\n", issueNo, strings.Join(nums, " "), draw.SpecialNumber)
	for _, run := range runs {
		if run.Status != "REVIEWED" || !run.HitCount.Valid {
			fmt.Fprintf(&b, "  %-16s pending\n", run.Strategy)
			continue
		}
		line := fmt.Sprintf("  %-16s %d/%d hits (%.0f%%)",
			run.Strategy, run.HitCount.Int64, DrawSize, run.HitRate.Float64*100)
		if run.SpecialHit.Valid && run.SpecialHit.Int64 == 1 {
			line += " +special"
		}
		fmt.Fprintf(&b, "%s\n", line)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
