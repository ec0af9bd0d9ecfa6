package jsfixture

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// SkipList names fixtures that must not be run, such as fixtures that need host objects the
// engine does not provide.
//
// Each line of a skip list file is a fixture ID, optionally followed by "#" and a reason. A line
// ending in "/" skips every fixture under that directory. Blank lines and lines starting with "#"
// are ignored.
type SkipList struct {
	exact    map[string]string
	prefixes []skipPrefix
}

type skipPrefix struct {
	prefix string
	reason string
}

const defaultSkipReason = "in skip list"

// LoadSkipList reads a skip list file. An empty path gives an empty list.
func LoadSkipList(path string) (*SkipList, error) {
	if path == "" {
		return &SkipList{}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not read skip list: %w", err)
	}
	defer f.Close()
	return ParseSkipList(f)
}

func ParseSkipList(r io.Reader) (*SkipList, error) {
	s := &SkipList{exact: make(map[string]string)}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		reason := defaultSkipReason
		if entry, comment, found := strings.Cut(line, "#"); found {
			line = strings.TrimSpace(entry)
			if c := strings.TrimSpace(comment); c != "" {
				reason = c
			}
		}
		line = strings.TrimPrefix(line, "./")
		if strings.HasSuffix(line, "/") {
			s.prefixes = append(s.prefixes, skipPrefix{prefix: line, reason: reason})
		} else {
			s.exact[line] = reason
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read skip list: %w", err)
	}
	return s, nil
}

// Reason returns the reason a fixture is skipped, or false if it is not in the list.
func (s *SkipList) Reason(id string) (string, bool) {
	if s == nil {
		return "", false
	}
	if reason, ok := s.exact[id]; ok {
		return reason, true
	}
	for _, p := range s.prefixes {
		if strings.HasPrefix(id, p.prefix) {
			return p.reason, true
		}
	}
	return "", false
}

func (s *SkipList) Len() int {
	if s == nil {
		return 0
	}
	return len(s.exact) + len(s.prefixes)
}
