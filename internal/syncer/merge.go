// internal/syncer/merge.go
package syncer

import (
	"time"

	"portfolio-backend/internal/model"
)

// Merge reconciles the fetched repositories with the persisted projects and
// returns exactly one upsert per remote repository, matched on repo_name.
//
// Presentation fields (title, description, live_url, featured, visible,
// order_index) keep an operator override once one exists. Provenance fields
// (github_url, stars, forks, language, topics) always come from GitHub.
// Projects whose repository is no longer listed are not part of the result
// and are therefore left as they are in the store.
//
// Merge does no I/O; now is passed in so the result depends only on the inputs.
func Merge(remote []model.RemoteRepository, existing []model.Project, now time.Time) []model.ProjectUpsert {
	byName := make(map[string]*model.Project, len(existing))
	for i := range existing {
		byName[existing[i].RepoName] = &existing[i]
	}

	upserts := make([]model.ProjectUpsert, 0, len(remote))
	for index, repo := range remote {
		upserts = append(upserts, mergeOne(repo, byName[repo.Name], index, now))
	}
	return upserts
}

func mergeOne(repo model.RemoteRepository, existing *model.Project, index int, now time.Time) model.ProjectUpsert {
	u := model.ProjectUpsert{
		RepoName:    repo.Name,
		Title:       repo.Name,
		Description: repo.Description,
		GithubURL:   repo.HTMLURL,
		LiveURL:     repo.Homepage,
		Featured:    false,
		Visible:     true,
		OrderIndex:  index,
		Stars:       repo.Stars,
		Forks:       repo.Forks,
		Language:    repo.Language,
		Topics:      cloneTopics(repo.Topics),
		UpdatedAt:   now,
	}
	if existing == nil {
		return u
	}

	if isSet(existing.Title) {
		u.Title = *existing.Title
	}
	if isSet(existing.Description) {
		u.Description = existing.Description
	}
	if isSet(existing.LiveURL) {
		u.LiveURL = existing.LiveURL
	}
	u.Featured = existing.Featured
	u.Visible = existing.Visible
	u.OrderIndex = existing.OrderIndex
	return u
}

func isSet(s *string) bool {
	return s != nil && *s != ""
}

func cloneTopics(topics []string) []string {
	out := make([]string, len(topics))
	copy(out, topics)
	return out
}
