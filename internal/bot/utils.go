package bot

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lithammer/dedent"
)

func formatReplyText(text string, a ...any) string {
	return fmt.Sprintf(strings.TrimSpace(dedent.Dedent(text)), a...)
}

var titleIssueRe = regexp.MustCompile(`^(.*?)\s*#\s*(\S+)\s*$`)

// parseTitleIssue splits "Amazing Spider-Man #300" into its title and
// issue number. Without a '#' the whole string is the title and the issue
// defaults to "1".
func parseTitleIssue(s string) (title, issueNumber string) {
	s = strings.TrimSpace(s)
	if m := titleIssueRe.FindStringSubmatch(s); m != nil && strings.TrimSpace(m[1]) != "" {
		return strings.TrimSpace(m[1]), m[2]
	}
	return s, "1"
}
