package risk

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Direct keyword mapping for the most common automation tools.
var agentNameMap = map[string]string{
	"headlesschrome":  "HeadlessChrome",
	"phantomjs":       "PhantomJS",
	"selenium":        "Selenium",
	"puppeteer":       "Puppeteer",
	"playwright":      "Playwright",
	"curl":            "curl",
	"wget":            "Wget",
	"python-requests": "Python Requests",
	"go-http-client":  "Go HTTP Client",
	"okhttp":          "OkHttp",
	"java/":           "Java HTTP Client",
	"scrapy":          "Scrapy",
}

// Generic automation patterns compiled once.
var agentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b([a-z0-9\-_]+bot)\b`),
	regexp.MustCompile(`(?i)\b([a-z0-9\-_]+spider)\b`),
	regexp.MustCompile(`(?i)\b([a-z0-9\-_]+crawler)\b`),
	regexp.MustCompile(`(?i)\bheadless\b`),
}

// IsAutomatedAgent reports whether the user agent looks like an automation
// tool, crawler, or scripted HTTP client rather than a real browser.
func IsAutomatedAgent(userAgent string) bool {
	if userAgent == "" {
		return false
	}
	lowerUA := strings.ToLower(userAgent)

	for keyword := range agentNameMap {
		if strings.Contains(lowerUA, keyword) {
			return true
		}
	}

	for _, pattern := range agentPatterns {
		if pattern.MatchString(userAgent) {
			return true
		}
	}
	return false
}

// AgentName extracts a readable automation tool name from a user agent.
// Returns "Unknown Automation" when the tool cannot be identified.
func AgentName(userAgent string) string {
	lowerUA := strings.ToLower(userAgent)

	for keyword, name := range agentNameMap {
		if strings.Contains(lowerUA, keyword) {
			return name
		}
	}

	title := cases.Title(language.English)
	for _, pattern := range agentPatterns {
		if matches := pattern.FindStringSubmatch(userAgent); len(matches) > 1 {
			return title.String(strings.ToLower(matches[1]))
		}
	}

	return "Unknown Automation"
}
