package notion

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/amara/inkflow/internal/models"
)

// PageSaver saves one page and returns its link. Implemented by Client;
// abstracted for tests.
type PageSaver interface {
	SavePage(ctx context.Context, title, platform, content string) (string, error)
}

// StorageStage persists the master content and each social post as pages.
// Input is a StorageRequest JSON; output is a StorageResult JSON.
type StorageStage struct {
	Saver PageSaver
}

// Name implements stage.Stage.
func (s *StorageStage) Name() models.StageName { return models.StageStorage }

// Execute saves all content pieces. A failed individual save fails the whole
// stage so the invoker can retry it.
func (s *StorageStage) Execute(ctx context.Context, input string) (string, error) {
	var req models.StorageRequest
	if err := json.Unmarshal([]byte(input), &req); err != nil {
		return "", fmt.Errorf("failed to decode storage request: %w", err)
	}
	if req.Social == nil {
		return "", fmt.Errorf("storage request missing social content")
	}

	masterLink, err := s.Saver.SavePage(ctx, req.Topic+" - Master Content", "Blog", req.MasterContent)
	if err != nil {
		return "", fmt.Errorf("failed to save master content: %w", err)
	}

	posts := []struct {
		platform string
		title    string
		content  string
	}{
		{"TikTok", req.Topic + " - TikTok Script", formatTikTok(req.Social)},
		{"LinkedIn", req.Topic + " - LinkedIn Post", formatLinkedIn(req.Social)},
		{"Instagram", req.Topic + " - Instagram Post", formatInstagram(req.Social)},
	}

	result := models.StorageResult{
		MasterContentLink: masterLink,
		Success:           true,
		Message:           "all content saved",
	}
	for _, post := range posts {
		link, err := s.Saver.SavePage(ctx, post.title, post.platform, post.content)
		if err != nil {
			return "", fmt.Errorf("failed to save %s post: %w", post.platform, err)
		}
		result.StoredPosts = append(result.StoredPosts, models.StoredPost{
			Platform: post.platform,
			Title:    post.title,
			Link:     link,
		})
	}

	out, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to encode storage result: %w", err)
	}
	return string(out), nil
}

func formatTikTok(s *models.SocialContent) string {
	return fmt.Sprintf("%s\n\n%s\n\n%s", s.TikTokHook, s.TikTokScript, s.TikTokCTA)
}

func formatLinkedIn(s *models.SocialContent) string {
	return fmt.Sprintf("%s\n\n%s\n\n%s\n\n%s",
		s.LinkedInHook, s.LinkedInBody, s.LinkedInCTA, strings.Join(s.LinkedInHashtags, " "))
}

func formatInstagram(s *models.SocialContent) string {
	return fmt.Sprintf("%s\n\n%s\n\n%s\n\n%s",
		s.InstagramHook, s.InstagramBody, s.InstagramCTA, strings.Join(s.InstagramHashtags, " "))
}
