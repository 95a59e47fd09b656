package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/text/unicode/norm"
)

// promptForValue asks for a missing identifier interactively, but only when
// stdin is a terminal; piped invocations must pass the flag.
func promptForValue(cmd *cobra.Command, label string) (string, error) {
	stdin, ok := cmd.InOrStdin().(*os.File)
	if !ok || !isatty.IsTerminal(stdin.Fd()) {
		return "", fmt.Errorf("%s required (pass the flag or run interactively)", label)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: ", label)
	reader := bufio.NewReader(stdin)
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read %s: %w", label, err)
	}
	value := strings.TrimSpace(line)
	if value == "" {
		return "", fmt.Errorf("%s must not be empty", label)
	}
	return value, nil
}

// readIdentifiers collects newline-separated identifiers from a reader,
// skipping blank lines.
func readIdentifiers(r io.Reader) ([]string, error) {
	var values []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		value := strings.TrimSpace(scanner.Text())
		if value == "" {
			continue
		}
		values = append(values, value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read identifiers: %w", err)
	}
	return values, nil
}

// normalizeQuery canonicalizes user search input so composed and decomposed
// accents match the same indexed rows.
func normalizeQuery(query string) string {
	return norm.NFC.String(strings.TrimSpace(query))
}

func formatYear(year int) string {
	if year == 0 {
		return ""
	}
	return strconv.Itoa(year)
}
