package helpers

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// PromptForChoice prompts until the answer is one of options. An empty
// answer keeps defaultValue.
func PromptForChoice(out io.Writer, reader *bufio.Reader, promptText string, options []string, defaultValue string) string {
	for {
		fmt.Fprintf(out, "%s (%s) [%s]: ", promptText, strings.Join(options, "/"), defaultValue)
		line, err := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if line == "" {
			return defaultValue
		}
		for _, opt := range options {
			if strings.EqualFold(line, opt) {
				return opt
			}
		}
		if err != nil {
			return defaultValue
		}
		fmt.Fprintf(out, "Please answer one of: %s\n", strings.Join(options, ", "))
	}
}

// PromptForYesNo prompts the user for a yes/no question
// Returns true for yes, false for no, or the default value if no input
func PromptForYesNo(out io.Writer, reader *bufio.Reader, promptText string, defaultValue bool) bool {
	label := "y/N"
	if defaultValue {
		label = "Y/n"
	}
	fmt.Fprintf(out, "%s [%s]: ", promptText, label)

	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(strings.ToLower(line))
	if line == "" {
		return defaultValue
	}
	return line == "y" || line == "yes"
}

// PromptForString prompts for free text; an empty answer keeps defaultValue.
func PromptForString(out io.Writer, reader *bufio.Reader, promptText string, defaultValue string) string {
	fmt.Fprintf(out, "%s [%s]: ", promptText, defaultValue)
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return defaultValue
	}
	return line
}

// PromptForInt re-asks until the answer parses as an integer.
func PromptForInt(out io.Writer, reader *bufio.Reader, promptText string, defaultValue int) int {
	for {
		raw := PromptForString(out, reader, promptText, strconv.Itoa(defaultValue))
		v, err := strconv.Atoi(raw)
		if err == nil {
			return v
		}
		if _, peekErr := reader.Peek(1); peekErr != nil {
			return defaultValue
		}
		fmt.Fprintf(out, "%q is not a whole number\n", raw)
	}
}

// PromptForDuration re-asks until the answer parses as a Go duration (e.g. 3s, 1m).
func PromptForDuration(out io.Writer, reader *bufio.Reader, promptText string, defaultValue time.Duration) time.Duration {
	for {
		raw := PromptForString(out, reader, promptText, defaultValue.String())
		v, err := time.ParseDuration(raw)
		if err == nil {
			return v
		}
		if _, peekErr := reader.Peek(1); peekErr != nil {
			return defaultValue
		}
		fmt.Fprintf(out, "%q is not a duration like 3s or 1m\n", raw)
	}
}
