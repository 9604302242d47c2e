package services

import (
	"regexp"
	"strings"

	"projectarchitect/internal/models"
)

var (
	headerPattern = regexp.MustCompile(`^([a-z]+)(?:\(([^()\r\n]+)\))?(!)?: (\S.*)$`)
	footerPattern = regexp.MustCompile(`^(BREAKING[ -]CHANGE|[A-Za-z][\w-]*)(?:: | #)`)
)

// CleanCommitMessage strips a surrounding Markdown fence and whitespace from
// a model reply.
func CleanCommitMessage(reply string) string {
	msg := strings.TrimSpace(reply)
	if strings.HasPrefix(msg, "```") {
		if i := strings.Index(msg, "\n"); i >= 0 {
			msg = msg[i+1:]
		} else {
			msg = strings.TrimPrefix(msg, "```")
		}
		msg = strings.TrimSuffix(strings.TrimSpace(msg), "```")
	}
	return strings.TrimSpace(msg)
}

// ParseCommitMessage cleans reply and splits it into Conventional Commits
// parts. A header that does not follow the convention leaves Conventional
// false and the message intact in Raw.
func ParseCommitMessage(reply string) models.CommitMessage {
	raw := CleanCommitMessage(reply)
	msg := models.CommitMessage{Raw: raw}

	header, rest, _ := strings.Cut(raw, "\n")
	m := headerPattern.FindStringSubmatch(strings.TrimSpace(header))
	if m == nil || !isCommitType(m[1]) {
		return msg
	}
	msg.Conventional = true
	msg.Type = m[1]
	msg.Scope = m[2]
	msg.Breaking = m[3] == "!"
	msg.Description = strings.TrimSpace(m[4])

	paragraphs := splitParagraphs(rest)
	if n := len(paragraphs); n > 0 && isFooter(paragraphs[n-1]) {
		msg.Footer = paragraphs[n-1]
		paragraphs = paragraphs[:n-1]
	}
	msg.Body = strings.Join(paragraphs, "\n\n")
	if strings.Contains(msg.Footer, "BREAKING CHANGE") || strings.Contains(msg.Footer, "BREAKING-CHANGE") {
		msg.Breaking = true
	}
	return msg
}

func isCommitType(t string) bool {
	for _, known := range models.CommitTypes {
		if t == known {
			return true
		}
	}
	return false
}

func splitParagraphs(s string) []string {
	var out []string
	for _, p := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func isFooter(paragraph string) bool {
	for _, line := range strings.Split(paragraph, "\n") {
		if !footerPattern.MatchString(line) {
			return false
		}
	}
	return true
}
