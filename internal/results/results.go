// Package results inventories the files previous analyses left in the output
// directories.
package results

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// EmptyMessage is returned by Format when nothing has been generated yet.
const EmptyMessage = "No results found. Run an analysis first to generate results."

type Category string

const (
	CategoryWeb      Category = "web"
	CategoryTable    Category = "table"
	CategoryData     Category = "data"
	CategoryImage    Category = "image"
	CategoryGeometry Category = "geometry"
	CategoryFile     Category = "file"
)

var categories = map[string]Category{
	".html":    CategoryWeb,
	".csv":     CategoryTable,
	".json":    CategoryData,
	".png":     CategoryImage,
	".jpg":     CategoryImage,
	".geojson": CategoryGeometry,
}

var icons = map[Category]string{
	CategoryWeb:      "🌐",
	CategoryTable:    "📊",
	CategoryData:     "📄",
	CategoryImage:    "🖼️",
	CategoryGeometry: "🗺️",
	CategoryFile:     "📁",
}

// Classify maps a file name to its category by extension.
func Classify(name string) Category {
	if c, ok := categories[strings.ToLower(filepath.Ext(name))]; ok {
		return c
	}
	return CategoryFile
}

// OutputFile is one generated artifact.
type OutputFile struct {
	Dir      string   `json:"dir"`
	Path     string   `json:"path"` // relative to Dir, slash separated
	Size     int64    `json:"size"`
	Category Category `json:"category"`
}

// List walks every directory recursively in lexical order. Directories that
// do not exist are skipped.
func List(dirs []string) ([]OutputFile, error) {
	var out []OutputFile
	for _, dir := range dirs {
		st, err := os.Stat(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("stat %s: %w", dir, err)
		}
		if !st.IsDir() {
			continue
		}

		err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return err
			}
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}
			out = append(out, OutputFile{
				Dir:      dir,
				Path:     filepath.ToSlash(rel),
				Size:     info.Size(),
				Category: Classify(d.Name()),
			})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", dir, err)
		}
	}
	return out, nil
}

// Format renders the inventory grouped by directory.
func Format(files []OutputFile) string {
	if len(files) == 0 {
		return EmptyMessage
	}
	p := message.NewPrinter(language.English)

	var b strings.Builder
	dir := ""
	for i, f := range files {
		if i == 0 || f.Dir != dir {
			dir = f.Dir
			fmt.Fprintf(&b, "\n📁 %s/\n", dir)
		}
		b.WriteString(p.Sprintf("  %s %s (%d bytes)\n", icons[f.Category], f.Path, f.Size))
	}
	return b.String()
}
