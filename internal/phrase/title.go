package phrase

import "kslingo/internal/textutil"

func splitTitle(title string) (string, string) {
	left, right, _ := textutil.SplitPair(title)
	return left, right
}

// TitleFromCategory rebuilds the "Learn - Native" section title from a
// per-language category map.
func TitleFromCategory(category map[string]string, langs Languages) string {
	return textutil.JoinPair(category[langs.Learn], category[langs.Native])
}
