package config

import (
	"fmt"
	"os"
	"strings"
)

// ReadPrivateKeyFromEnvFile extracts a multiline private key from a
// .env-style file. Line-oriented KEY=value formats can't represent a PEM
// block, so the file is read raw: everything after "name=" is collected
// line by line until a comment or the next KEY= assignment, skipping
// blank lines.
//
// Returns the reassembled key text, or "" if the variable is absent.
// This is pure text extraction; parsing the key is the crypto layer's job.
func ReadPrivateKeyFromEnvFile(path, name string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	marker := name + "="
	start := strings.Index(string(content), marker)
	if start == -1 {
		return "", nil
	}

	rest := string(content)[start+len(marker):]

	var keyLines []string
	for _, line := range strings.Split(rest, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") || isAssignment(line) {
			break
		}
		if line != "" {
			keyLines = append(keyLines, line)
		}
	}

	return strings.Join(keyLines, "\n"), nil
}

// isAssignment reports whether a line starts a new env variable
// (UPPER_SNAKE name followed by '='). PEM body lines are base64 and can
// contain '=' padding, so only lines whose prefix looks like a variable
// name count.
func isAssignment(line string) bool {
	eq := strings.Index(line, "=")
	if eq <= 0 {
		return false
	}
	name := line[:eq]
	for _, r := range name {
		if !(r >= 'A' && r <= 'Z') && !(r >= '0' && r <= '9') && r != '_' {
			return false
		}
	}
	return true
}
