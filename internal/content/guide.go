// Package content serves the in-app guide pages from markdown files.
package content

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dailyvibe/dailyvibe/internal/markdown"
)

type GuidePage struct {
	Title   string `json:"title"`
	Slug    string `json:"slug"`
	Content string `json:"content"`
}

type GuideService struct {
	contentDir string
	pages      map[string]*GuidePage
}

func NewGuideService(contentDir string) *GuideService {
	return &GuideService{
		contentDir: filepath.Join(contentDir, "guide"),
		pages:      make(map[string]*GuidePage),
	}
}

func (s *GuideService) LoadPages() error {
	files, err := os.ReadDir(s.contentDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read guide directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".md") {
			continue
		}

		slug := strings.TrimSuffix(file.Name(), ".md")
		page, err := s.loadPage(slug)
		if err != nil {
			return fmt.Errorf("failed to load page %s: %w", slug, err)
		}

		s.pages[slug] = page
	}

	return nil
}

func (s *GuideService) loadPage(slug string) (*GuidePage, error) {
	source, err := os.ReadFile(filepath.Join(s.contentDir, slug+".md"))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	parser := markdown.NewParser()
	html, meta, err := parser.ParseWithFrontmatter(source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse markdown: %w", err)
	}

	title, _ := meta["title"].(string)
	if title == "" {
		// Generate title from slug
		title = cases.Title(language.English).String(strings.ReplaceAll(slug, "-", " "))
	}

	return &GuidePage{
		Title:   title,
		Slug:    slug,
		Content: string(html),
	}, nil
}

// Pages returns every guide page, reloading from disk so edits show up
// without a restart.
func (s *GuideService) Pages() ([]*GuidePage, error) {
	err := s.LoadPages()
	if err != nil {
		return nil, err
	}

	pages := make([]*GuidePage, 0, len(s.pages))
	for _, p := range s.pages {
		pages = append(pages, p)
	}
	return pages, nil
}

func (s *GuideService) Page(slug string) (*GuidePage, error) {
	err := s.LoadPages()
	if err != nil {
		return nil, err
	}

	page, ok := s.pages[slug]
	if !ok {
		return nil, fmt.Errorf("page not found: %s", slug)
	}

	return page, nil
}
