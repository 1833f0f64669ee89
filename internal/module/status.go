package module

import "strings"

// branchPrefixLen is the length of the "## " prefix on the branch line of
// `git status --porcelain --branch`.
const branchPrefixLen = 3

// Status is the parsed output of `git status --porcelain --branch`
type Status struct {
	// Branch is the branch descriptor, e.g. "main...origin/main [ahead 1]"
	Branch string
	// Files holds the raw per-file status lines, e.g. "?? hey"
	Files []string
	// FileNames holds the last whitespace-separated token of each file line
	FileNames []string
}

// ParseStatus parses porcelain status output. The first line is the branch
// line; every other non-empty line is a file entry.
func ParseStatus(output string) Status {
	status := Status{
		Files:     []string{},
		FileNames: []string{},
	}

	lines := strings.Split(output, "\n")
	first := true
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}

		if first {
			status.Branch = stripBranchPrefix(line)
			first = false
			continue
		}

		status.Files = append(status.Files, line)
		status.FileNames = append(status.FileNames, lastField(line))
	}

	return status
}

func stripBranchPrefix(line string) string {
	if len(line) < branchPrefixLen {
		return ""
	}
	return line[branchPrefixLen:]
}

func lastField(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// Clean reports whether the working tree has no changes
func (s Status) Clean() bool {
	return len(s.Files) == 0
}
