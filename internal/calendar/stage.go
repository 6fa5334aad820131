package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/amara/inkflow/internal/models"
)

// EventCreator is the calendar surface the schedule stage needs.
type EventCreator interface {
	CreateEvent(ctx context.Context, summary, description string, start time.Time) (string, error)
}

// ScheduleStage creates one posting-reminder event per platform, each at the
// platform's next optimal slot, spaced at least an hour apart.
type ScheduleStage struct {
	Creator  EventCreator
	Location *time.Location
	Now      func() time.Time
}

func NewScheduleStage(creator EventCreator, loc *time.Location) *ScheduleStage {
	if loc == nil {
		loc = time.UTC
	}
	return &ScheduleStage{Creator: creator, Location: loc, Now: time.Now}
}

func (s *ScheduleStage) Name() models.StageName { return models.StageSchedule }

func (s *ScheduleStage) Execute(ctx context.Context, input string) (string, error) {
	var req models.ScheduleRequest
	if err := json.Unmarshal([]byte(input), &req); err != nil {
		return "", fmt.Errorf("schedule: decoding request: %w", err)
	}
	if req.Social == nil {
		return "", fmt.Errorf("schedule: no social content to schedule")
	}

	type planned struct {
		platform    string
		description string
	}
	plan := []planned{
		{"TikTok", formatTikTokEvent(req.Social)},
		{"LinkedIn", formatLinkedInEvent(req.Social)},
		{"Instagram", formatInstagramEvent(req.Social)},
	}

	after := s.Now().In(s.Location)
	result := models.ScheduleResult{Success: true, Message: "all posts scheduled"}
	for _, p := range plan {
		slot := NextSlot(p.platform, after)
		title := fmt.Sprintf("[%s] - %s", p.platform, req.Topic)
		link, err := s.Creator.CreateEvent(ctx, title, p.description, slot)
		if err != nil {
			return "", fmt.Errorf("schedule: %s event: %w", p.platform, err)
		}
		result.ScheduledPosts = append(result.ScheduledPosts, models.ScheduledPost{
			Platform:      p.platform,
			Title:         title,
			ScheduledTime: slot.Format(time.RFC3339),
			EventLink:     link,
		})
		// Space the next platform's post out from this one.
		after = slot.Add(time.Hour)
	}

	out, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("schedule: encoding result: %w", err)
	}
	return string(out), nil
}

func formatTikTokEvent(c *models.SocialContent) string {
	return joinSections(
		"HOOK:\n"+c.TikTokHook,
		"SCRIPT:\n"+c.TikTokScript,
		"CTA:\n"+c.TikTokCTA,
	)
}

func formatLinkedInEvent(c *models.SocialContent) string {
	return joinSections(
		"HOOK:\n"+c.LinkedInHook,
		"POST:\n"+c.LinkedInBody,
		"CTA:\n"+c.LinkedInCTA,
		"HASHTAGS:\n"+strings.Join(c.LinkedInHashtags, " "),
	)
}

func formatInstagramEvent(c *models.SocialContent) string {
	return joinSections(
		"HOOK:\n"+c.InstagramHook,
		"CAPTION:\n"+c.InstagramBody,
		"CTA:\n"+c.InstagramCTA,
		"HASHTAGS:\n"+strings.Join(c.InstagramHashtags, " "),
	)
}

func joinSections(sections ...string) string {
	return strings.Join(sections, "\n\n")
}
