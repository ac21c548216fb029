package grounding

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/bmatcuk/doublestar/v4"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// DefaultGlob matches the guideline files an Ingester picks up under a
// seed directory.
const DefaultGlob = "**/*.{md,txt,html,htm}"

// maxIngestFileSize caps how much of a guideline file is read.
const maxIngestFileSize = 1 << 20 // 1 MB

// knownPlatforms is used to infer a platform scope from file names like
// linkedin-professional.md.
var knownPlatforms = []string{"whatsapp", "linkedin", "email", "twitter", "sms"}

// knownTones mirrors the vibe taxonomy for file-name tone inference.
var knownTones = []string{"Professional", "Friendly", "Persuasive", "Concise", "Empathetic"}

// Ingester loads guideline files from disk into a grounding store.
// Markdown and plain text are stored as-is; HTML goes through
// readability extraction and markdown conversion first.
type Ingester struct {
	converter *md.Converter
	logger    *slog.Logger
}

// NewIngester creates an ingester.
func NewIngester(logger *slog.Logger) *Ingester {
	if logger == nil {
		logger = slog.Default()
	}

	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	return &Ingester{
		converter: converter,
		logger:    logger,
	}
}

// IngestDir ingests every guideline file under root matching pattern
// (DefaultGlob when empty) and returns how many documents were stored.
// Individual file failures are logged and skipped.
func (in *Ingester) IngestDir(ctx context.Context, store Store, root, pattern string) (int, error) {
	if pattern == "" {
		pattern = DefaultGlob
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return 0, fmt.Errorf("resolve seed directory: %w", err)
	}

	matches, err := doublestar.FilepathGlob(filepath.Join(absRoot, pattern))
	if err != nil {
		return 0, fmt.Errorf("glob %s: %w", pattern, err)
	}

	count := 0
	for _, path := range matches {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		if err := in.IngestFile(ctx, store, path); err != nil {
			in.logger.Warn("Skipping guideline file", "path", path, "error", err)
			continue
		}
		count++
	}

	in.logger.Info("Ingested guideline files", "root", absRoot, "count", count)
	return count, nil
}

// IngestFile ingests a single guideline file.
func (in *Ingester) IngestFile(ctx context.Context, store Store, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Size() > maxIngestFileSize {
		return fmt.Errorf("file too large: %d bytes", info.Size())
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var title, text string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		title, text, err = in.convertHTML(raw, path)
		if err != nil {
			return fmt.Errorf("convert HTML: %w", err)
		}
	default:
		text = strings.TrimSpace(string(raw))
		title = markdownTitle(text)
	}

	if text == "" {
		return fmt.Errorf("no usable content")
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if title == "" {
		title = base
	}

	doc := Document{
		ID:       "file-" + slugify(base),
		Title:    title,
		Text:     text,
		Platform: inferPlatform(base),
		Tone:     inferTone(base),
	}
	return store.Upsert(ctx, doc)
}

// convertHTML extracts the main content of an HTML guideline and
// converts it to markdown. Readability handles boilerplate stripping;
// if it fails, the raw HTML still goes through markdown conversion.
func (in *Ingester) convertHTML(raw []byte, path string) (title, text string, err error) {
	pageURL := &url.URL{Scheme: "file", Path: path}

	article, rerr := readability.FromReader(strings.NewReader(string(raw)), pageURL)
	content := string(raw)
	if rerr == nil && article.Content != "" {
		title = article.Title
		content = article.Content
	}

	markdown, err := in.converter.ConvertString(content)
	if err != nil {
		return "", "", err
	}

	if title == "" {
		title = htmlTitle(raw)
	}
	return title, strings.TrimSpace(markdown), nil
}

// htmlTitle extracts the <title> element from raw HTML.
func htmlTitle(raw []byte) string {
	doc, err := html.Parse(strings.NewReader(string(raw)))
	if err != nil {
		return ""
	}

	var title string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "title" && n.FirstChild != nil {
			title = strings.TrimSpace(n.FirstChild.Data)
			return
		}
		for c := n.FirstChild; c != nil && title == ""; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return title
}

// markdownTitle returns the first H1 heading, if any.
func markdownTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}

// inferPlatform extracts a known platform name from a file base name.
func inferPlatform(base string) string {
	lowered := strings.ToLower(base)
	for _, p := range knownPlatforms {
		if strings.Contains(lowered, p) {
			return p
		}
	}
	return ""
}

// inferTone extracts a vibe name from a file base name.
func inferTone(base string) string {
	lowered := strings.ToLower(base)
	for _, t := range knownTones {
		if strings.Contains(lowered, strings.ToLower(t)) {
			return t
		}
	}
	return ""
}

// slugify normalizes a file base name into a stable document ID part.
func slugify(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		default:
			sb.WriteRune('-')
		}
	}
	return strings.Trim(sb.String(), "-")
}
