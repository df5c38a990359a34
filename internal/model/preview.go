package model

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// Preview describes a file or directory for a details pane
type Preview struct {
	Path      string    // Absolute path of the node
	IsDir     bool      // Whether the path is a directory
	Size      int64     // Size in bytes (files only)
	ModTime   time.Time // Last modification time
	MIME      string    // Detected MIME type (files only)
	IsText    bool      // Whether the content looks like text
	Lines     []string  // Leading lines of a text file
	Truncated bool      // More lines exist beyond Lines
	ErrorMsg  string    // Error message if the path couldn't be read
}

// ExpandTilde expands a leading ~ to the user's home directory
func ExpandTilde(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return home + path[1:]
		}
	}
	return path
}

// ReadPreview stats a path and, for text files, reads up to maxLines lines
func ReadPreview(path string, maxLines int) Preview {
	path = ExpandTilde(path)
	result := Preview{Path: path}

	info, err := os.Stat(path)
	if err != nil {
		result.ErrorMsg = fmt.Sprintf("Could not read file: %v", err)
		return result
	}
	result.IsDir = info.IsDir()
	result.ModTime = info.ModTime()
	if result.IsDir {
		return result
	}
	result.Size = info.Size()

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		result.ErrorMsg = fmt.Sprintf("Could not detect type: %v", err)
		return result
	}
	result.MIME = mtype.String()

	// text/* plus the structured text types (json, xml, ...) all descend from text/plain
	for m := mtype; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			result.IsText = true
			break
		}
	}
	if !result.IsText || maxLines <= 0 {
		return result
	}

	file, err := os.Open(path)
	if err != nil {
		result.ErrorMsg = fmt.Sprintf("Could not read file: %v", err)
		return result
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)
	for scanner.Scan() {
		if len(result.Lines) == maxLines {
			result.Truncated = true
			break
		}
		result.Lines = append(result.Lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		result.ErrorMsg = fmt.Sprintf("Error reading file: %v", err)
	}

	return result
}
