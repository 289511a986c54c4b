package core

import "strings"

// FileResult pairs one uploaded filename with its extraction outcome.
type FileResult struct {
	Name  string
	Pages []PageRecord
	Err   *ExtractError
}

// FilterOutcome classifies an extracted batch. Partial success is success:
// one good PDF among five bad ones still produces a usable batch.
type FilterOutcome struct {
	UsablePages []PageRecord
	Skipped     []string // files dropped (unreadable or no extractable text)
	AllFailed   bool
}

// FilterBatch keeps pages only from files whose extraction succeeded and
// that contributed at least one page of non-whitespace text. Files that
// parsed but yielded nothing (image-only scans) are skips, not errors.
func FilterBatch(results []FileResult) FilterOutcome {
	var out FilterOutcome
	for _, res := range results {
		if res.Err != nil {
			out.Skipped = append(out.Skipped, res.Name)
			continue
		}
		usable := false
		for _, page := range res.Pages {
			if strings.TrimSpace(page.Text) != "" {
				usable = true
				break
			}
		}
		if !usable {
			out.Skipped = append(out.Skipped, res.Name)
			continue
		}
		for _, page := range res.Pages {
			if strings.TrimSpace(page.Text) == "" {
				continue
			}
			out.UsablePages = append(out.UsablePages, page)
		}
	}
	out.AllFailed = len(out.UsablePages) == 0
	return out
}
