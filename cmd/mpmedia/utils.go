package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-shiori/mpmedia"
)

func parseInputFile(path string) ([]string, error) {
	// Open file
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// Fetch each line from file
	urls := []string{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		urls = append(urls, text)
	}

	return urls, scanner.Err()
}

func recordFileName(now time.Time, format mpmedia.Format) string {
	ext := ".json"
	if format == mpmedia.FormatYAML {
		ext = ".yaml"
	}
	return fmt.Sprintf("wechat_extraction_%d%s", now.Unix(), ext)
}

func urlListFileName(now time.Time) string {
	return fmt.Sprintf("wechat_urls_%d.txt", now.Unix())
}

func isDirectory(path string) bool {
	f, err := os.Stat(path)
	if err != nil {
		return false
	}

	return f.IsDir()
}

// readLine prints prompt and returns the next trimmed line from r.
// io.EOF is only returned when nothing was typed.
func readLine(r *bufio.Reader, w io.Writer, prompt string) (string, error) {
	fmt.Fprint(w, prompt)

	line, err := r.ReadString('\n')
	line = strings.TrimSpace(line)
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}

	return line, nil
}

func askYesNo(r *bufio.Reader, w io.Writer, question string) bool {
	answer, err := readLine(r, w, question+" (y/n): ")
	if err != nil {
		fmt.Fprintln(w)
		return false
	}

	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
