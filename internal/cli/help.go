package cli

import (
	"regexp"
	"strings"

	"github.com/spf13/cobra"
)

var (
	// "Usage:", "Available Commands:", "Flags:"
	sectionHeaderRe = regexp.MustCompile(`^[A-Z][A-Za-z ]+:$`)
	// "  add           Record a check-in for a party"
	commandListingRe = regexp.MustCompile(`^( {2})(\S+)(\s{2,}.*)$`)
	// "  -y, --yes     skip confirmation prompt"
	flagLineRe = regexp.MustCompile(`^( +)(-.+?)( {2,}.*)$`)
	// "  checkin add [PARTY] [flags]"
	usageLineRe = regexp.MustCompile(`^( {2})(checkin\b[^\[]*)(\[.*)$`)
	footerRe    = regexp.MustCompile(`^Use "`)
)

// colorizedHelpFunc renders cobra's default help with the CLI color scheme.
func colorizedHelpFunc() func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		origOut := cmd.OutOrStdout()

		var buf strings.Builder
		cmd.SetOut(&buf)
		cmd.InitDefaultHelpFlag()
		_ = cmd.Usage()
		cmd.SetOut(origOut)

		lines := strings.Split(buf.String(), "\n")

		var result strings.Builder
		for _, line := range lines {
			result.WriteString(colorizeLine(line))
			result.WriteString("\n")
		}

		cmd.Print(strings.TrimRight(result.String(), "\n") + "\n")
	}
}

func colorizeLine(line string) string {
	trimmed := strings.TrimSpace(line)

	switch {
	case sectionHeaderRe.MatchString(trimmed):
		return Info(line)
	case footerRe.MatchString(trimmed):
		return Silent(line)
	}

	if m := usageLineRe.FindStringSubmatch(line); m != nil {
		return m[1] + Primary(m[2]) + Silent(m[3])
	}
	if m := flagLineRe.FindStringSubmatch(line); m != nil {
		return m[1] + Primary(m[2]) + Text(m[3])
	}
	if m := commandListingRe.FindStringSubmatch(line); m != nil {
		return m[1] + Primary(m[2]) + Text(m[3])
	}

	return Text(line)
}
