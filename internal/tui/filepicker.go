package tui

import (
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/mark3labs/handyhire/internal/tui/theme"
)

// FileSelectedMsg is sent when a file is picked.
type FileSelectedMsg struct {
	Path string
}

type fileItem struct {
	name  string
	path  string
	isDir bool
}

func (f fileItem) render(width int) string {
	icon := "📄"
	if f.isDir {
		icon = "📁"
	}
	display := icon + " " + f.name
	if width > 8 && len(display) > width-2 {
		display = display[:width-5] + "..."
	}
	return display
}

// FilePicker browses directories and picks a file with one of the allowed
// extensions.
type FilePicker struct {
	dir        string
	extensions []string
	items      []fileItem
	selected   int
	height     int
	err        error
}

// NewFilePicker opens dir, listing directories and files whose extension is
// in extensions (lower case, with the dot).
func NewFilePicker(dir string, extensions []string) *FilePicker {
	if dir == "" {
		if cwd, err := os.Getwd(); err == nil {
			dir = cwd
		} else {
			dir = "."
		}
	}
	fp := &FilePicker{extensions: extensions, height: 10}
	fp.err = fp.load(dir)
	return fp
}

// Dir returns the directory being shown.
func (f *FilePicker) Dir() string { return f.dir }

// Err returns the error from the last directory read.
func (f *FilePicker) Err() error { return f.err }

// SetHeight sets how many entries are visible.
func (f *FilePicker) SetHeight(h int) {
	f.height = max(h, 3)
}

func (f *FilePicker) load(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}

	var items, dirs, files []fileItem
	if parent := filepath.Dir(abs); parent != abs {
		items = append(items, fileItem{name: "..", path: parent, isDir: true})
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		full := filepath.Join(abs, e.Name())
		if e.IsDir() {
			dirs = append(dirs, fileItem{name: e.Name(), path: full, isDir: true})
			continue
		}
		if slices.Contains(f.extensions, strings.ToLower(filepath.Ext(e.Name()))) {
			files = append(files, fileItem{name: e.Name(), path: full})
		}
	}
	byName := func(s []fileItem) func(i, j int) bool {
		return func(i, j int) bool { return strings.ToLower(s[i].name) < strings.ToLower(s[j].name) }
	}
	sort.Slice(dirs, byName(dirs))
	sort.Slice(files, byName(files))

	f.items = append(append(items, dirs...), files...)
	f.dir = abs
	f.selected = 0
	return nil
}

// Update handles navigation. Picking a file returns a command emitting
// FileSelectedMsg.
func (f *FilePicker) Update(msg tea.Msg) tea.Cmd {
	k, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil
	}
	switch k.String() {
	case "up", "k":
		if f.selected > 0 {
			f.selected--
		}
	case "down", "j":
		if f.selected < len(f.items)-1 {
			f.selected++
		}
	case "enter":
		if f.selected < 0 || f.selected >= len(f.items) {
			return nil
		}
		item := f.items[f.selected]
		if item.isDir {
			f.err = f.load(item.path)
			return nil
		}
		path := item.path
		return func() tea.Msg { return FileSelectedMsg{Path: path} }
	case "backspace", "left", "h":
		if parent := filepath.Dir(f.dir); parent != f.dir {
			f.err = f.load(parent)
		}
	}
	return nil
}

// View renders the current directory and its entries.
func (f *FilePicker) View(width int) string {
	s := theme.Current().S()
	var b strings.Builder
	b.WriteString(s.Subtitle.Render(f.dir))
	b.WriteString("\n\n")

	if f.err != nil {
		b.WriteString(s.FieldError.Render(f.err.Error()))
		b.WriteString("\n")
	}

	hasFiles := slices.ContainsFunc(f.items, func(i fileItem) bool { return !i.isDir })
	if !hasFiles {
		b.WriteString(s.Muted.Italic(true).Render("No " + strings.Join(f.extensions, ", ") + " files here"))
		b.WriteString("\n")
	}

	start := 0
	if f.selected >= f.height {
		start = f.selected - f.height + 1
	}
	end := min(start+f.height, len(f.items))
	for i := start; i < end; i++ {
		line := f.items[i].render(width)
		if i == f.selected {
			line = s.Selected.Render("▸ " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}
