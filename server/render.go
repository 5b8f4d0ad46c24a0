package server

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/syedmojiz72-lab/agentexchanger/model"
	"github.com/syedmojiz72-lab/agentexchanger/store"
)

// pageHeader generates the HTML header with Bootstrap CDN
func pageHeader(title string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
    <link href="https://cdn.jsdelivr.net/npm/bootstrap@5.3.2/dist/css/bootstrap.min.css" rel="stylesheet">
</head>
<body>
<nav class="navbar navbar-expand bg-dark navbar-dark mb-4">
  <div class="container">
    <a class="navbar-brand" href="/browse">AgentExchanger</a>
    <div class="navbar-nav">
      <a class="nav-link" href="/browse">Browse</a>
      <a class="nav-link" href="/submit">Submit</a>
      <a class="nav-link" href="/stats">Stats</a>
    </div>
  </div>
</nav>
<div class="container">`, template.HTMLEscapeString(title))
}

// pageFooter generates the HTML footer
func pageFooter() string {
	return `</div>
</body>
</html>`
}

// renderBrowsePage generates the agent listing page
func renderBrowsePage(listings []*model.AgentListing, filter store.BrowseFilter) string {
	var b strings.Builder
	b.WriteString(pageHeader("AgentExchanger - Browse"))

	b.WriteString(fmt.Sprintf(`<form class="row g-2 mb-4" method="GET" action="/browse">
  <div class="col-auto"><input class="form-control" type="text" name="search" placeholder="Search" value="%s"></div>
  <div class="col-auto"><input class="form-control" type="text" name="category" placeholder="Category" value="%s"></div>
  <div class="col-auto">
    <select class="form-select" name="sort">%s</select>
  </div>
  <div class="col-auto"><button class="btn btn-primary" type="submit">Filter</button></div>
</form>`,
		template.HTMLEscapeString(filter.Search),
		template.HTMLEscapeString(filter.Category),
		sortOptions(filter.Sort),
	))

	if len(listings) == 0 {
		b.WriteString(`<div class="alert alert-info">No agents found.</div>`)
	} else {
		b.WriteString(`<table class="table table-striped"><thead><tr>
<th>Name</th><th>Category</th><th>Tags</th><th>Rating</th><th>Forks</th><th></th>
</tr></thead><tbody>`)
		for _, l := range listings {
			premium := ""
			if l.IsPremium {
				premium = ` <span class="badge bg-warning text-dark">premium</span>`
			}
			b.WriteString(fmt.Sprintf(`<tr>
<td>%s%s</td>
<td>%s</td>
<td>%s</td>
<td>%.1f (%d)</td>
<td>%d</td>
<td><a class="btn btn-sm btn-outline-primary" href="/agent/%d">View</a></td>
</tr>`,
				template.HTMLEscapeString(l.Name),
				premium,
				template.HTMLEscapeString(l.Category),
				template.HTMLEscapeString(strings.Join(l.Tags, ", ")),
				l.AvgRating,
				l.RatingCount,
				l.ForkCount,
				l.ID,
			))
		}
		b.WriteString(`</tbody></table>`)
	}

	b.WriteString(pageFooter())
	return b.String()
}

// sortOptions renders the sort dropdown with the active mode selected
func sortOptions(active model.SortMode) string {
	modes := []model.SortMode{model.SortRecent, model.SortRating, model.SortForks, model.SortTrending}
	var b strings.Builder
	for _, m := range modes {
		selected := ""
		if m == active {
			selected = " selected"
		}
		b.WriteString(fmt.Sprintf(`<option value="%s"%s>%s</option>`, m, selected, m))
	}
	return b.String()
}

// renderAgentPage generates the agent detail page with ratings and a
// rating form. errorFlag carries the already_rated redirect marker.
func renderAgentPage(l *model.AgentListing, ratings []*model.Rating, errorFlag string) string {
	var b strings.Builder
	b.WriteString(pageHeader("AgentExchanger - " + l.Name))

	if errorFlag == "already_rated" {
		b.WriteString(`<div class="alert alert-warning">You have already rated this agent.</div>`)
	}

	lineage := ""
	if l.OriginalAgentID != nil {
		lineage = fmt.Sprintf(`<p>Forked from <a href="/agent/%d">agent #%d</a></p>`, *l.OriginalAgentID, *l.OriginalAgentID)
	}
	creator := "anonymous"
	if l.CreatorWallet != "" {
		creator = template.HTMLEscapeString(l.CreatorWallet)
	}

	b.WriteString(fmt.Sprintf(`<h1>%s</h1>
<p>%s</p>
<p><strong>Category:</strong> %s &middot; <strong>Tags:</strong> %s</p>
<p><strong>Link:</strong> <a href="%s" rel="nofollow">%s</a></p>
<p><strong>Creator:</strong> %s &middot; <strong>Rating:</strong> %.1f (%d) &middot; <strong>Forks:</strong> %d</p>
%s
<a class="btn btn-outline-secondary mb-4" href="/fork/%d">Fork this agent</a>`,
		template.HTMLEscapeString(l.Name),
		template.HTMLEscapeString(l.Description),
		template.HTMLEscapeString(l.Category),
		template.HTMLEscapeString(strings.Join(l.Tags, ", ")),
		template.HTMLEscapeString(l.Link),
		template.HTMLEscapeString(l.Link),
		creator,
		l.AvgRating,
		l.RatingCount,
		l.ForkCount,
		lineage,
		l.ID,
	))

	b.WriteString(fmt.Sprintf(`<h4>Rate this agent</h4>
<form class="row g-2 mb-4" method="POST" action="/rate">
  <input type="hidden" name="agent_id" value="%d">
  <div class="col-auto"><input class="form-control" type="number" name="stars" min="1" max="5" value="5"></div>
  <div class="col-auto"><input class="form-control" type="text" name="comment" placeholder="Comment"></div>
  <div class="col-auto"><button class="btn btn-primary" type="submit">Rate</button></div>
</form>`, l.ID))

	b.WriteString(fmt.Sprintf(`<h4>Ratings (%d)</h4>`, len(ratings)))
	if len(ratings) == 0 {
		b.WriteString(`<div class="alert alert-info">No ratings yet.</div>`)
	} else {
		b.WriteString(`<ul class="list-group mb-4">`)
		for _, r := range ratings {
			who := "anonymous"
			if r.WalletAddress != "" {
				who = template.HTMLEscapeString(r.WalletAddress)
			}
			b.WriteString(fmt.Sprintf(`<li class="list-group-item">%d/5 by %s &mdash; %s</li>`,
				r.Stars, who, template.HTMLEscapeString(r.Comment)))
		}
		b.WriteString(`</ul>`)
	}

	b.WriteString(pageFooter())
	return b.String()
}

// renderSubmitPage generates the agent submission form, prefilled from the
// draft for fork submissions
func renderSubmitPage(draft *model.AgentDraft) string {
	var b strings.Builder
	b.WriteString(pageHeader("AgentExchanger - Submit"))

	lineage := ""
	heading := "Submit an agent"
	if draft.OriginalAgentID != nil {
		lineage = fmt.Sprintf(`<input type="hidden" name="original_agent_id" value="%d">`, *draft.OriginalAgentID)
		heading = fmt.Sprintf("Fork agent #%d", *draft.OriginalAgentID)
	}

	b.WriteString(fmt.Sprintf(`<h1>%s</h1>
<form method="POST" action="/submit" class="mb-4" style="max-width: 480px">
  %s
  <div class="mb-3"><label class="form-label">Name</label>
    <input class="form-control" type="text" name="name" value="%s"></div>
  <div class="mb-3"><label class="form-label">Description</label>
    <textarea class="form-control" name="description">%s</textarea></div>
  <div class="mb-3"><label class="form-label">Category</label>
    <input class="form-control" type="text" name="category" value="%s"></div>
  <div class="mb-3"><label class="form-label">Link</label>
    <input class="form-control" type="text" name="link" value="%s"></div>
  <div class="mb-3"><label class="form-label">Tags (comma separated)</label>
    <input class="form-control" type="text" name="tags"></div>
  <div class="mb-3"><label class="form-label">Content hash (optional)</label>
    <input class="form-control" type="text" name="content_hash"></div>
  <div class="form-check mb-3">
    <input class="form-check-input" type="checkbox" name="is_premium" value="1">
    <label class="form-check-label">Premium listing</label></div>
  <button class="btn btn-primary" type="submit">Submit</button>
</form>`,
		template.HTMLEscapeString(heading),
		lineage,
		template.HTMLEscapeString(draft.Name),
		template.HTMLEscapeString(draft.Description),
		template.HTMLEscapeString(draft.Category),
		template.HTMLEscapeString(draft.Link),
	))

	b.WriteString(pageFooter())
	return b.String()
}
