package agents

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/amara/inkflow/internal/stage"
)

// fakeSearch returns canned responses keyed by a query substring.
type fakeSearch struct {
	responses map[string]*SearchResponse
	err       error
	queries   []string
}

func (f *fakeSearch) Search(_ context.Context, query string, _ int, _ bool) (*SearchResponse, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	for key, resp := range f.responses {
		if strings.Contains(query, key) {
			return resp, nil
		}
	}
	return &SearchResponse{}, nil
}

func TestResearchStageExecute(t *testing.T) {
	search := &fakeSearch{responses: map[string]*SearchResponse{
		"facts statistics": {
			Answer: "Provider summary",
			Results: []SearchResult{
				{Title: "Stats piece", URL: "https://example.com/stats", Content: "Adoption grew 45% in 2024. Tools are everywhere."},
			},
		},
		"controversies": {
			Results: []SearchResult{
				{Title: "Debate piece", URL: "https://example.com/debate", Content: "However, critics argue the gains are overstated. Sky is blue."},
			},
		},
		"trends": {
			Results: []SearchResult{
				{Title: "Trends piece", URL: "https://example.com/trends", Content: "An emerging pattern is voice capture. Nothing else."},
			},
		},
		"overlooked": {
			Results: []SearchResult{
				{Title: "Gap piece", URL: "https://example.com/gaps", Content: "Offline workflows are often ignored by reviewers. Filler."},
			},
		},
		"expert opinion": {
			Results: []SearchResult{
				{Title: "Expert piece", URL: "https://example.com/expert", Content: "According to one researcher, retrieval wins. Filler."},
			},
		},
	}}

	st := &ResearchStage{Client: search}
	out, err := st.Execute(context.Background(), "AI note taking")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	data, err := DecodeResearch(out)
	if err != nil {
		t.Fatalf("output is not valid research JSON: %v", err)
	}

	if data.Topic != "AI note taking" {
		t.Errorf("Topic = %q", data.Topic)
	}
	if data.ResearchSummary != "Provider summary" {
		t.Errorf("ResearchSummary = %q, want provider answer", data.ResearchSummary)
	}
	if len(data.FactsAndStats) != 1 || !strings.Contains(data.FactsAndStats[0], "45%") {
		t.Errorf("FactsAndStats = %v", data.FactsAndStats)
	}
	if len(data.ControversiesAndDebates) != 1 {
		t.Errorf("ControversiesAndDebates = %v", data.ControversiesAndDebates)
	}
	if len(data.TrendingAngles) != 1 {
		t.Errorf("TrendingAngles = %v", data.TrendingAngles)
	}
	if len(data.ContentGaps) != 1 {
		t.Errorf("ContentGaps = %v", data.ContentGaps)
	}
	if len(data.ExpertQuotes) != 1 {
		t.Errorf("ExpertQuotes = %v", data.ExpertQuotes)
	}
	// Sources come from the four themed searches, deduped by URL; the
	// expert search does not contribute sources.
	if len(data.Sources) != 4 {
		t.Errorf("Sources = %v, want 4 deduped", data.Sources)
	}
	if len(search.queries) != 5 {
		t.Errorf("ran %d searches, want 5", len(search.queries))
	}
}

func TestResearchStageRejectsEmptyTopic(t *testing.T) {
	search := &fakeSearch{}
	st := &ResearchStage{Client: search}
	for _, topic := range []string{"", "   ", "\n\t"} {
		_, err := st.Execute(context.Background(), topic)
		if !errors.Is(err, stage.ErrInvalidInput) {
			t.Errorf("Execute(%q) error = %v, want ErrInvalidInput", topic, err)
		}
	}
	if len(search.queries) != 0 {
		t.Errorf("ran %d searches on empty topics, want none", len(search.queries))
	}
}

func TestResearchStageSearchFailure(t *testing.T) {
	st := &ResearchStage{Client: &fakeSearch{err: errors.New("rate limited")}}
	if _, err := st.Execute(context.Background(), "anything"); err == nil {
		t.Error("Execute() = nil error when provider fails")
	}
}

func TestExtractFactsCaps(t *testing.T) {
	content := strings.Repeat("Fact number 1 is big. ", 30)
	results := []SearchResult{{Content: content}}
	facts := extractFacts(results)
	if len(facts) > maxFacts {
		t.Errorf("extracted %d facts, cap is %d", len(facts), maxFacts)
	}
}

func TestCompileSourcesDedup(t *testing.T) {
	a := []SearchResult{{Title: "A", URL: "https://same"}}
	b := []SearchResult{{Title: "B", URL: "https://same"}, {URL: ""}}
	sources := compileSources(a, b)
	if len(sources) != 1 {
		t.Fatalf("sources = %v, want 1", sources)
	}
	if sources[0].Title != "A" {
		t.Errorf("kept %q, want first-seen title", sources[0].Title)
	}
}
