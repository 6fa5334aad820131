// Package artifacts writes run outputs (master content, social scripts,
// page and event links) to the output directory. Writes are atomic and
// flock-guarded so concurrent runs sharing an output directory never
// interleave.
package artifacts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"github.com/amara/inkflow/internal/models"
)

// Artifact file names within the output directory.
const (
	MasterContentFile = "output_master_content.txt"
	SocialMediaFile   = "output_social_media.txt"
	PageLinksFile     = "output_notion_links.txt"
	EventLinksFile    = "output_calendar_links.txt"
)

// Writer emits run artifacts into one output directory.
type Writer struct {
	Dir string
}

func NewWriter(dir string) *Writer {
	return &Writer{Dir: dir}
}

// WriteRun writes every artifact the record has content for and returns the
// paths written.
func (w *Writer) WriteRun(rec *models.RunRecord) ([]string, error) {
	var written []string

	if rec.BestDraft != "" {
		path := filepath.Join(w.Dir, MasterContentFile)
		if err := writeLocked(path, []byte(formatMaster(rec))); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	if rec.Social != nil {
		path := filepath.Join(w.Dir, SocialMediaFile)
		if err := writeLocked(path, []byte(formatSocial(rec.Social))); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	if rec.Storage != nil {
		path := filepath.Join(w.Dir, PageLinksFile)
		if err := writeLocked(path, []byte(formatPageLinks(rec.Storage))); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	if rec.Schedule != nil {
		path := filepath.Join(w.Dir, EventLinksFile)
		if err := writeLocked(path, []byte(formatEventLinks(rec.Schedule))); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	return written, nil
}

// writeLocked holds path.lock while atomically replacing path, so a reader
// never sees a partial artifact and parallel runs serialize.
func writeLocked(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("acquire lock on %s: %w", path, err)
	}
	defer lock.Unlock()

	return atomicWrite(path, data)
}

// atomicWrite replaces path via a temp file in the same directory and a
// rename, so interrupted writes leave the previous content intact.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if tmp != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file to %s: %w", path, err)
	}
	tmp = nil
	return nil
}

func formatMaster(rec *models.RunRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "TOPIC: %s\n", rec.Topic)
	if rec.Evaluation != nil {
		fmt.Fprintf(&b, "SCORE: %.1f/10\n", rec.Evaluation.OverallScore)
	}
	b.WriteString("\n")
	b.WriteString(rec.BestDraft)
	b.WriteString("\n")
	return b.String()
}

func formatSocial(c *models.SocialContent) string {
	var b strings.Builder
	b.WriteString("=== TIKTOK ===\n\n")
	fmt.Fprintf(&b, "HOOK: %s\n\nSCRIPT:\n%s\n\nCTA: %s\n\n", c.TikTokHook, c.TikTokScript, c.TikTokCTA)
	b.WriteString("=== LINKEDIN ===\n\n")
	fmt.Fprintf(&b, "HOOK: %s\n\nPOST:\n%s\n\nCTA: %s\n", c.LinkedInHook, c.LinkedInBody, c.LinkedInCTA)
	if len(c.LinkedInHashtags) > 0 {
		fmt.Fprintf(&b, "\nHASHTAGS: %s\n", strings.Join(c.LinkedInHashtags, " "))
	}
	b.WriteString("\n=== INSTAGRAM ===\n\n")
	fmt.Fprintf(&b, "HOOK: %s\n\nCAPTION:\n%s\n\nCTA: %s\n", c.InstagramHook, c.InstagramBody, c.InstagramCTA)
	if len(c.InstagramHashtags) > 0 {
		fmt.Fprintf(&b, "\nHASHTAGS: %s\n", strings.Join(c.InstagramHashtags, " "))
	}
	return b.String()
}

func formatPageLinks(r *models.StorageResult) string {
	var b strings.Builder
	if r.MasterContentLink != "" {
		fmt.Fprintf(&b, "Master Content: %s\n", r.MasterContentLink)
	}
	for _, post := range r.StoredPosts {
		fmt.Fprintf(&b, "%s: %s\n", post.Platform, post.Link)
	}
	return b.String()
}

func formatEventLinks(r *models.ScheduleResult) string {
	var b strings.Builder
	for _, post := range r.ScheduledPosts {
		fmt.Fprintf(&b, "%s at %s: %s\n", post.Platform, post.ScheduledTime, post.EventLink)
	}
	return b.String()
}
