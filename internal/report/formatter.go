package report

import (
	"io"
	"sort"
	"strings"

	"github.com/vvakame/gqlimport/internal/composition"
)

type Formatter interface {
	FormatResolutions(resolutions map[string]*composition.Resolution)
	FormatResolution(resolution *composition.Resolution)
}

func NewFormatter(w io.Writer) Formatter {
	return &formatter{writer: w}
}

type formatter struct {
	writer io.Writer

	padNext bool
}

func (f *formatter) writeString(s string) {
	_, _ = f.writer.Write([]byte(s))
}

func (f *formatter) WriteWord(word string) *formatter {
	if f.padNext {
		f.writeString(" ")
	}
	f.writeString(strings.TrimSpace(word))
	f.padNext = true

	return f
}

func (f *formatter) WriteString(s string) *formatter {
	if f.padNext {
		f.writeString(" ")
	}
	f.writeString(s)
	f.padNext = false

	return f
}

func (f *formatter) FormatResolutions(resolutions map[string]*composition.Resolution) {
	importPaths := make([]string, 0, len(resolutions))
	for importPath := range resolutions {
		importPaths = append(importPaths, importPath)
	}
	sort.Strings(importPaths)

	f.WriteWord("Resolutions").WriteWord("{")
	for _, importPath := range importPaths {
		f.FormatResolution(resolutions[importPath])
		f.WriteWord(",")
	}
	f.WriteWord("}")
}

func (f *formatter) FormatResolution(resolution *composition.Resolution) {
	f.WriteString(`Module "`)
	f.WriteString(resolution.ImportPath)
	f.WriteWord(`"`)
	f.WriteWord("{")

	var from string
	for i, imp := range resolution.Imported {
		if i == 0 || imp.From != from {
			if i != 0 {
				f.WriteWord("}").WriteWord(",")
			}
			from = imp.From
			f.WriteString(`Import(from: "`)
			f.WriteString(from)
			f.WriteWord(`")`)
			f.WriteWord("{")
		}
		f.WriteWord(imp.Fragment)
	}
	if len(resolution.Imported) != 0 {
		f.WriteWord("}").WriteWord(",")
	}

	f.WriteWord("Fragments").WriteWord("{")
	for _, fragment := range resolution.Document.Fragments {
		f.WriteWord(fragment.Name)
	}
	f.WriteWord("}").WriteWord(",")

	f.WriteWord("}")
}
