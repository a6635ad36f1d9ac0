package importer

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"
)

const (
	maxArchiveFiles    = 1000
	maxArchiveFileSize = 50 * 1024 * 1024
)

var archiveSkipPatterns = []string{"__MACOSX", ".DS_Store", "Thumbs.db"}

type archiveFile struct {
	Name    string
	Content []byte
}

// expandArchive extracts the importable files from a ZIP archive in
// memory. Entry names are flattened to their base name; entries with
// traversal paths, unknown extensions or system noise are skipped.
func expandArchive(content []byte) ([]archiveFile, error) {
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	var files []archiveFile
	for _, entry := range reader.File {
		if entry.FileInfo().IsDir() {
			continue
		}

		name, ok := safeEntryName(entry.Name)
		if !ok || shouldSkipEntry(name) {
			continue
		}

		switch strings.ToLower(path.Ext(name)) {
		case ".csv", ".xlsx":
		default:
			continue
		}

		if len(files) >= maxArchiveFiles {
			return nil, fmt.Errorf("too many files in archive (limit %d)", maxArchiveFiles)
		}
		if int64(entry.UncompressedSize64) > maxArchiveFileSize {
			return nil, fmt.Errorf("file %s in archive exceeds %d bytes", name, maxArchiveFileSize)
		}

		data, err := readEntry(entry)
		if err != nil {
			return nil, err
		}
		files = append(files, archiveFile{Name: name, Content: data})
	}

	return files, nil
}

func readEntry(entry *zip.File) ([]byte, error) {
	rc, err := entry.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s in archive: %w", entry.Name, err)
	}
	defer rc.Close()

	// Limit on actual bytes read, the header size is attacker-controlled.
	data, err := io.ReadAll(io.LimitReader(rc, maxArchiveFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from archive: %w", entry.Name, err)
	}
	if int64(len(data)) > maxArchiveFileSize {
		return nil, fmt.Errorf("file %s in archive exceeds %d bytes", entry.Name, maxArchiveFileSize)
	}
	return data, nil
}

// safeEntryName flattens an archive entry to its base name, rejecting
// absolute paths and traversal attempts.
func safeEntryName(name string) (string, bool) {
	name = strings.ReplaceAll(name, "\\", "/")
	if path.IsAbs(name) || (len(name) >= 2 && name[1] == ':') {
		return "", false
	}

	cleaned := path.Clean(name)
	if strings.HasPrefix(cleaned, "..") {
		return "", false
	}

	base := path.Base(cleaned)
	if base == "." || base == "/" || base == "" {
		return "", false
	}
	return base, true
}

func shouldSkipEntry(name string) bool {
	for _, pattern := range archiveSkipPatterns {
		if strings.Contains(name, pattern) {
			return true
		}
	}
	return false
}
