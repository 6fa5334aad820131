// Package models defines the data structures shared across the inkflow
// pipeline: stage identities and statuses, research output, evaluations,
// repurposed social content, and the aggregate run record.
package models

// StageName identifies one unit of pipeline work.
type StageName string

// Pipeline stages in execution order.
const (
	StageResearch StageName = "research"
	StageWrite    StageName = "write"
	StageEvaluate StageName = "evaluate"
	StageSocial   StageName = "social"
	StageStorage  StageName = "storage"
	StageSchedule StageName = "schedule"
)

// String returns the string representation of the stage name.
func (s StageName) String() string {
	return string(s)
}

// StageStatus is the terminal status of a stage within a run.
type StageStatus string

const (
	// StatusSucceeded indicates the stage completed and produced output.
	StatusSucceeded StageStatus = "succeeded"

	// StatusFailed indicates the stage exhausted its attempts without output.
	StatusFailed StageStatus = "failed"

	// StatusSkipped indicates the stage never ran because a hard dependency failed.
	StatusSkipped StageStatus = "skipped"
)

// FailureKind classifies why a stage invocation failed.
type FailureKind string

const (
	// FailureTimeout indicates an attempt exceeded its deadline or the run
	// was cancelled mid-attempt.
	FailureTimeout FailureKind = "timeout"

	// FailureTransient indicates the stage call itself returned an error;
	// a retry is sensible.
	FailureTransient FailureKind = "transient"

	// FailureFatal tags validation failures no retry can repair, such as
	// a rejected input payload; never an ordinary external-call failure.
	FailureFatal FailureKind = "fatal"
)

// Source is a single reference discovered during research.
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// ResearchData is the structured output of the research stage.
type ResearchData struct {
	Topic                   string   `json:"topic"`
	FactsAndStats           []string `json:"facts_and_stats"`
	ControversiesAndDebates []string `json:"controversies_and_debates"`
	TrendingAngles          []string `json:"trending_angles"`
	ContentGaps             []string `json:"content_gaps"`
	ExpertQuotes            []string `json:"expert_quotes"`
	Sources                 []Source `json:"sources"`
	ResearchSummary         string   `json:"research_summary"`
}

// SocialContent is the repurposed output of the social stage: one piece per
// platform, each with the hook/body/call-to-action split the platforms expect.
type SocialContent struct {
	TikTokHook   string `json:"tiktok_hook"`
	TikTokScript string `json:"tiktok_script"`
	TikTokCTA    string `json:"tiktok_cta"`

	LinkedInHook     string   `json:"linkedin_hook"`
	LinkedInBody     string   `json:"linkedin_body"`
	LinkedInCTA      string   `json:"linkedin_cta"`
	LinkedInHashtags []string `json:"linkedin_hashtags"`

	InstagramHook     string   `json:"instagram_hook"`
	InstagramBody     string   `json:"instagram_body"`
	InstagramCTA      string   `json:"instagram_cta"`
	InstagramHashtags []string `json:"instagram_hashtags"`
}

// StoredPost is one document-store page created by the storage stage.
type StoredPost struct {
	Platform string `json:"platform"`
	Title    string `json:"title"`
	Link     string `json:"link"`
}

// StorageResult is the output of the storage stage.
type StorageResult struct {
	MasterContentLink string       `json:"master_content_link"`
	StoredPosts       []StoredPost `json:"stored_posts"`
	Success           bool         `json:"success"`
	Message           string       `json:"message"`
}

// ScheduledPost is one calendar event created by the schedule stage.
type ScheduledPost struct {
	Platform      string `json:"platform"`
	Title         string `json:"title"`
	ScheduledTime string `json:"scheduled_time"`
	EventLink     string `json:"event_link"`
}

// ScheduleResult is the output of the schedule stage.
type ScheduleResult struct {
	ScheduledPosts []ScheduledPost `json:"scheduled_posts"`
	Success        bool            `json:"success"`
	Message        string          `json:"message"`
}
