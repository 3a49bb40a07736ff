package provider

import (
	"strings"

	"tickerscope/pkg/model"
)

// DefaultPublisher is used when an article has no publisher
const DefaultPublisher = "Unknown"

// NormalizeRawNews converts provider news entries into NewsItems. Yahoo has
// served the title both at the top level and nested under "content", so both
// locations are consulted; anything missing becomes an empty string.
func NormalizeRawNews(raw []map[string]any) []model.NewsItem {
	items := make([]model.NewsItem, 0, len(raw))
	for _, entry := range raw {
		if entry == nil {
			continue
		}
		content, _ := entry["content"].(map[string]any)

		item := model.NewsItem{
			Title:     firstString(entry, "title"),
			Link:      firstString(entry, "link"),
			Publisher: firstString(entry, "publisher"),
		}
		if item.Title == "" {
			item.Title = firstString(content, "title")
		}
		if item.Link == "" {
			item.Link = nestedString(content, "canonicalUrl", "url")
		}
		if item.Link == "" {
			item.Link = nestedString(content, "clickThroughUrl", "url")
		}
		if item.Publisher == "" {
			item.Publisher = nestedString(content, "provider", "displayName")
		}
		if item.Publisher == "" {
			item.Publisher = DefaultPublisher
		}
		items = append(items, item)
	}
	return items
}

func firstString(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}

func nestedString(m map[string]any, outer, inner string) string {
	if m == nil {
		return ""
	}
	nested, _ := m[outer].(map[string]any)
	return firstString(nested, inner)
}
