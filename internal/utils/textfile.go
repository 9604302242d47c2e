package utils

import (
	"bufio"
	"bytes"
	"errors"
	"io/fs"
	"os"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadRuleFiles concatenates the rule lines of every file in paths, in order.
// Blank lines and # comments are dropped. Missing files contribute nothing.
func ReadRuleFiles(paths ...string) ([]string, error) {
	var rules []string
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return rules, err
		}

		s := bufio.NewScanner(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
		for s.Scan() {
			line := strings.TrimRight(s.Text(), " \t\r")
			if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
				continue
			}
			rules = append(rules, line)
		}
		if err := s.Err(); err != nil {
			return rules, err
		}
	}
	return rules, nil
}
