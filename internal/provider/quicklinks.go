package provider

import (
	"github.com/runger/pal/internal/result"
	"github.com/runger/pal/internal/scoring"
)

// Quicklink is a user-defined bookmark.
type Quicklink struct {
	Title string
	URL   string
}

// QuicklinkProvider matches the query against user bookmarks.
type QuicklinkProvider struct {
	scorer *scoring.Engine
	links  []Quicklink
}

// NewQuicklinkProvider creates a quicklink provider over a fixed set of
// bookmarks. Persistence of the set is the host's concern.
func NewQuicklinkProvider(scorer *scoring.Engine, links []Quicklink) *QuicklinkProvider {
	return &QuicklinkProvider{scorer: scorer, links: links}
}

// Name implements FastProvider.
func (p *QuicklinkProvider) Name() string { return "quicklinks" }

// Search implements FastProvider.
func (p *QuicklinkProvider) Search(query string) []result.SearchResult {
	var out []result.SearchResult
	for _, link := range p.links {
		score := p.scorer.Score(query, link.Title, link.URL, result.CategoryQuicklink, link.URL)
		if score <= 0 {
			continue
		}
		out = append(out, result.SearchResult{
			Title:    link.Title,
			Subtitle: link.URL,
			Category: result.CategoryQuicklink,
			Score:    score,
			Action:   OpenURL{URL: link.URL},
		})
	}
	return out
}

// Contact is one address-book entry.
type Contact struct {
	Name  string
	Email string
}

// ContactProvider matches the query against a cached contact list.
type ContactProvider struct {
	scorer   *scoring.Engine
	contacts []Contact
}

// NewContactProvider creates a contact provider over a pre-loaded list.
func NewContactProvider(scorer *scoring.Engine, contacts []Contact) *ContactProvider {
	return &ContactProvider{scorer: scorer, contacts: contacts}
}

// Name implements FastProvider.
func (p *ContactProvider) Name() string { return "contacts" }

// Search implements FastProvider.
func (p *ContactProvider) Search(query string) []result.SearchResult {
	var out []result.SearchResult
	for _, c := range p.contacts {
		score := p.scorer.Score(query, c.Name, c.Email, result.CategoryContact, c.Email)
		if score <= 0 {
			continue
		}
		out = append(out, result.SearchResult{
			Title:    c.Name,
			Subtitle: c.Email,
			Category: result.CategoryContact,
			Score:    score,
			Action:   CopyText{Text: c.Email},
		})
	}
	return out
}
