package store

import (
	"os"
	"strings"
)

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}
