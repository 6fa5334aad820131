package notion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/amara/inkflow/internal/models"
)

func TestFlattenMarkdown(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  []string
		avoid []string
	}{
		{
			name:  "headers stripped",
			in:    "## The Heading\n\nBody text here.",
			want:  []string{"The Heading", "Body text here."},
			avoid: []string{"##"},
		},
		{
			name:  "emphasis stripped",
			in:    "This is **bold** and *italic* text.",
			want:  []string{"This is bold and italic text."},
			avoid: []string{"**", "*"},
		},
		{
			name:  "list items kept as text",
			in:    "- first point\n- second point\n",
			want:  []string{"first point", "second point"},
			avoid: []string{"- "},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FlattenMarkdown(tt.in)
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("FlattenMarkdown(%q) = %q, missing %q", tt.in, got, want)
				}
			}
			for _, avoid := range tt.avoid {
				if strings.Contains(got, avoid) {
					t.Errorf("FlattenMarkdown(%q) = %q, still contains %q", tt.in, got, avoid)
				}
			}
		})
	}
}

func TestChunkContentRespectsParagraphs(t *testing.T) {
	para := strings.Repeat("word ", 100) // ~500 chars
	content := strings.Join([]string{para, para, para, para, para}, "\n\n")

	chunks := ChunkContent(content)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if len(chunk) >= 2000 {
			t.Errorf("chunk %d is %d chars, exceeds the block limit", i, len(chunk))
		}
	}
}

func TestChunkContentSplitsOversizedParagraph(t *testing.T) {
	sentence := "This sentence is a filler with several words in it. "
	huge := strings.Repeat(sentence, 100) // ~5200 chars, no paragraph breaks

	chunks := ChunkContent(huge)

	if len(chunks) < 2 {
		t.Fatalf("oversized paragraph not split: %d chunks", len(chunks))
	}
	for i, chunk := range chunks {
		if len(chunk) >= 2000 {
			t.Errorf("chunk %d is %d chars", i, len(chunk))
		}
	}
}

func TestChunkContentEmpty(t *testing.T) {
	if chunks := ChunkContent("   \n\n  "); len(chunks) != 0 {
		t.Errorf("ChunkContent(blank) = %v, want none", chunks)
	}
}

// fakeSaver records saved pages.
type fakeSaver struct {
	saved []string
	fail  string
}

func (f *fakeSaver) SavePage(_ context.Context, title, platform, _ string) (string, error) {
	if f.fail == platform {
		return "", errors.New("notion unavailable")
	}
	f.saved = append(f.saved, platform)
	return fmt.Sprintf("https://www.notion.so/%s", strings.ToLower(platform)), nil
}

func storageInput(t *testing.T) string {
	t.Helper()
	req := models.StorageRequest{
		Topic:         "AI note taking",
		MasterContent: "# Post\n\nBody.",
		Social: &models.SocialContent{
			TikTokHook: "hook", TikTokScript: "script", TikTokCTA: "cta",
			LinkedInHook: "lh", LinkedInBody: "lb", LinkedInCTA: "lc", LinkedInHashtags: []string{"#x"},
			InstagramHook: "ih", InstagramBody: "ib", InstagramCTA: "ic",
		},
	}
	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	return string(data)
}

func TestStorageStageSavesAllPieces(t *testing.T) {
	saver := &fakeSaver{}
	st := &StorageStage{Saver: saver}

	out, err := st.Execute(context.Background(), storageInput(t))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var result models.StorageResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("output is not a storage result: %v", err)
	}

	if !result.Success {
		t.Error("Success = false")
	}
	if result.MasterContentLink == "" {
		t.Error("MasterContentLink empty")
	}
	if len(result.StoredPosts) != 3 {
		t.Fatalf("StoredPosts = %d, want 3", len(result.StoredPosts))
	}
	wantPlatforms := []string{"Blog", "TikTok", "LinkedIn", "Instagram"}
	for i, platform := range wantPlatforms {
		if saver.saved[i] != platform {
			t.Errorf("saved[%d] = %s, want %s", i, saver.saved[i], platform)
		}
	}
	if result.StoredPosts[0].Title != "AI note taking - TikTok Script" {
		t.Errorf("TikTok title = %q", result.StoredPosts[0].Title)
	}
}

func TestStorageStageFailsWhenOneSaveFails(t *testing.T) {
	st := &StorageStage{Saver: &fakeSaver{fail: "LinkedIn"}}
	if _, err := st.Execute(context.Background(), storageInput(t)); err == nil {
		t.Error("Execute() = nil error when a save fails")
	}
}

func TestStorageStageRejectsMalformedInput(t *testing.T) {
	st := &StorageStage{Saver: &fakeSaver{}}
	if _, err := st.Execute(context.Background(), "not json"); err == nil {
		t.Error("Execute() = nil error for malformed input")
	}
	if _, err := st.Execute(context.Background(), `{"topic":"x","master_content":"y"}`); err == nil {
		t.Error("Execute() = nil error for missing social content")
	}
}
