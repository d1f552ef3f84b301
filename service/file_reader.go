package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ludo-technologies/structsim/domain"
)

// languageExtensions maps each supported language to its file extensions
var languageExtensions = map[domain.Language][]string{
	domain.LangTypeScript: {".ts", ".tsx", ".mts", ".cts"},
	domain.LangRust:       {".rs"},
	domain.LangCSS:        {".css"},
}

// FileReaderImpl implements the FileReader interface
type FileReaderImpl struct{}

// NewFileReader creates a new file reader service
func NewFileReader() *FileReaderImpl {
	return &FileReaderImpl{}
}

// CollectFiles recursively finds source files for the given languages
func (f *FileReaderImpl) CollectFiles(paths []string, languages []domain.Language, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	extensions := extensionSet(languages)

	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, domain.NewFileNotFoundError(path, err)
		}

		if info.IsDir() {
			dirFiles, err := f.collectFromDirectory(path, extensions, recursive, includePatterns, excludePatterns)
			if err != nil {
				return nil, err
			}
			files = append(files, dirFiles...)
		} else {
			if hasExtension(path, extensions) && f.shouldIncludeFile(path, includePatterns, excludePatterns) {
				files = append(files, path)
			}
		}
	}

	return files, nil
}

// ReadFile reads the content of a file
func (f *FileReaderImpl) ReadFile(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewFileNotFoundError(path, err)
	}
	return content, nil
}

// DetectLanguage resolves the language of a file from its extension
func (f *FileReaderImpl) DetectLanguage(path string) (domain.Language, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	for lang, exts := range languageExtensions {
		for _, candidate := range exts {
			if ext == candidate {
				return lang, true
			}
		}
	}
	return "", false
}

// ValidatePaths validates that all provided paths exist and are accessible
func (f *FileReaderImpl) ValidatePaths(paths []string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return domain.NewFileNotFoundError(path, err)
			}
			return domain.NewInvalidInputError(fmt.Sprintf("cannot access path: %s", path), err)
		}
	}
	return nil
}

// collectFromDirectory collects matching source files from a directory
func (f *FileReaderImpl) collectFromDirectory(dirPath string, extensions map[string]struct{}, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	var files []string

	walkFunc := func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// Unreadable entries are skipped, the rest of the tree
			// still gets scanned.
			return nil
		}

		if info.IsDir() && !recursive && path != dirPath {
			return filepath.SkipDir
		}

		// Skip hidden directories and files
		if strings.HasPrefix(info.Name(), ".") && path != dirPath {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() && f.shouldSkipDirectory(info.Name()) {
			return filepath.SkipDir
		}

		if !info.IsDir() && hasExtension(path, extensions) {
			if f.shouldIncludeFile(path, includePatterns, excludePatterns) {
				files = append(files, path)
			}
		}

		return nil
	}

	if err := filepath.Walk(dirPath, walkFunc); err != nil {
		return nil, fmt.Errorf("failed to walk directory %s: %w", dirPath, err)
	}

	return files, nil
}

// shouldIncludeFile checks if a file should be included based on patterns
func (f *FileReaderImpl) shouldIncludeFile(path string, includePatterns, excludePatterns []string) bool {
	normalized := filepath.ToSlash(path)

	for _, pattern := range excludePatterns {
		if matched, _ := doublestar.Match(pattern, filepath.Base(path)); matched {
			return false
		}
		if matched, _ := doublestar.Match(pattern, normalized); matched {
			return false
		}
	}

	if len(includePatterns) == 0 {
		return true
	}

	for _, pattern := range includePatterns {
		if matched, _ := doublestar.Match(pattern, filepath.Base(path)); matched {
			return true
		}
		if matched, _ := doublestar.Match(pattern, normalized); matched {
			return true
		}
	}

	return false
}

// shouldSkipDirectory checks if a directory should be skipped entirely
func (f *FileReaderImpl) shouldSkipDirectory(dirName string) bool {
	skipDirs := []string{
		"node_modules",
		"target",
		"build",
		"dist",
		"out",
		"vendor",
		"coverage",
		".git",
		".svn",
		".hg",
	}

	dirLower := strings.ToLower(dirName)
	for _, skipDir := range skipDirs {
		if dirLower == skipDir {
			return true
		}
	}
	return false
}

// extensionSet flattens the extensions of the given languages. An
// empty language list means all supported languages.
func extensionSet(languages []domain.Language) map[string]struct{} {
	if len(languages) == 0 {
		for lang := range languageExtensions {
			languages = append(languages, lang)
		}
	}
	set := make(map[string]struct{})
	for _, lang := range languages {
		for _, ext := range languageExtensions[lang] {
			set[ext] = struct{}{}
		}
	}
	return set
}

func hasExtension(path string, extensions map[string]struct{}) bool {
	_, ok := extensions[strings.ToLower(filepath.Ext(path))]
	return ok
}
