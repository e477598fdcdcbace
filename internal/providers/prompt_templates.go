package providers

import (
	"fmt"
)

type PromptTemplates struct{}

func NewPromptTemplates() *PromptTemplates {
	return &PromptTemplates{}
}

func (p *PromptTemplates) BuildContentPrompt(topic, contentType string) string {
	return fmt.Sprintf(`Generate high-quality %s content about "%s".
Make it engaging, informative, and SEO-optimized. Include relevant headings and structure.`, contentType, topic)
}

func (p *PromptTemplates) BuildWebContentPrompt(topic, contentType string) string {
	return fmt.Sprintf(`Create a high-quality %s about "%s". Include recent developments, current trends, and cite credible sources. Make it engaging, informative, and SEO-optimized with proper structure and headings.`, contentType, topic)
}

func (p *PromptTemplates) BuildKeywordsPrompt(topic string) string {
	return fmt.Sprintf(`Generate 20 relevant SEO keywords for the topic "%s".
Return only the keywords as a JSON object: {"keywords": ["string"]}.`, topic)
}

func (p *PromptTemplates) BuildTitlesPrompt(topic string) string {
	return fmt.Sprintf(`Generate 10 compelling, SEO-optimized titles for content about "%s".
Return as a JSON object: {"titles": ["string"]}.`, topic)
}

func (p *PromptTemplates) BuildOutlinePrompt(topic string) string {
	return fmt.Sprintf(`Create a detailed content outline for an article about "%s".
Include main sections, subsections, and key points to cover in each. Use a clear hierarchical structure.`, topic)
}

func (p *PromptTemplates) BuildNLPKeywordsPrompt(content string) string {
	return fmt.Sprintf(`Extract 15 NLP-friendly keywords and semantic entities from this content.
Focus on terms search engines associate with the topic. Return as a JSON object: {"keywords": ["string"]}.

CONTENT:
%s`, truncate(content, 2000))
}

func (p *PromptTemplates) BuildTrendingKeywordsPrompt(topic string) string {
	return fmt.Sprintf(`Research and provide 20 trending keywords related to "%s" based on current search trends, user intent, and market demand. Focus on high-potential, low-competition keywords. Return as a JSON object: {"keywords": ["string"]}.`, topic)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
