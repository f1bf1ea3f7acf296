// Command datacheck lints the YAML sources for scalars the loader
// would have to repair: unquoted codes YAML reads as booleans and
// numeric dates it reads as integers. The build fixes these up with a
// warning; this catches them before they are committed.
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	boolLikeRe = regexp.MustCompile(`^(?i:y|yes|n|no|true|false|on|off)$`)
	idLineRe   = regexp.MustCompile(`^\s*(?:-\s+)?(code|id|country):\s+(\S+)\s*$`)
	flowListRe = regexp.MustCompile(`^\s*(borders|languages|continents|blocktype|partof|tags|regions):\s*\[(.*)\]\s*$`)
	dateLineRe = regexp.MustCompile(`^\s*(?:-\s+)?(founded|dissolved|joined):\s+([0-9]{4})\s*$`)
)

func main() {
	root := "data"
	if len(os.Args) > 1 {
		root = os.Args[1]
	}

	var issues []string

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		if !strings.HasSuffix(path, ".yaml") && !strings.HasSuffix(path, ".yml") {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		scanner := bufio.NewScanner(f)
		lineNum := 0
		for scanner.Scan() {
			lineNum++
			line := scanner.Text()

			if m := idLineRe.FindStringSubmatch(line); m != nil && boolLikeRe.MatchString(m[2]) {
				issues = append(issues, fmt.Sprintf("%s:%d: %s %s parses as a boolean, quote it",
					path, lineNum, m[1], m[2]))
			}

			if m := flowListRe.FindStringSubmatch(line); m != nil {
				for _, item := range strings.Split(m[2], ",") {
					item = strings.TrimSpace(item)
					if boolLikeRe.MatchString(item) {
						issues = append(issues, fmt.Sprintf("%s:%d: %s entry %s parses as a boolean, quote it",
							path, lineNum, m[1], item))
					}
				}
			}

			if m := dateLineRe.FindStringSubmatch(line); m != nil {
				issues = append(issues, fmt.Sprintf("%s:%d: %s %s parses as an integer, quote it",
					path, lineNum, m[1], m[2]))
			}
		}
		return scanner.Err()
	})

	if err != nil {
		fmt.Fprintf(os.Stderr, "walk error: %v\n", err)
		os.Exit(1)
	}

	if len(issues) > 0 {
		fmt.Println("Source issues found:")
		for _, issue := range issues {
			fmt.Println("  ", issue)
		}
		os.Exit(1)
	}

	fmt.Println("Source check passed.")
}
