package formatting

import (
	"errors"
	"fmt"
	"io"
	"text/template"

	"beakermatrix/internal/suites"

	"github.com/Masterminds/sprig/v3"
)

// TemplateFormatter executes a user template with the sprig function library.
// The template receives the same value the JSON formatter would encode.
type TemplateFormatter struct {
	options Options
	out     io.Writer
	tmpl    *template.Template
}

// NewTemplateFormatter parses options.Template.
func NewTemplateFormatter(options Options, out io.Writer) (Formatter, error) {
	if options.Template == "" {
		return nil, errors.New("template output requires a template")
	}
	tmpl, err := template.New("output").Funcs(sprig.TxtFuncMap()).Parse(options.Template)
	if err != nil {
		return nil, fmt.Errorf("failed to parse output template: %w", err)
	}
	return &TemplateFormatter{
		options: options,
		out:     out,
		tmpl:    tmpl,
	}, nil
}

func (f *TemplateFormatter) FormatSuites(info *suites.ComponentTestInfo) error {
	return f.execute(info)
}

func (f *TemplateFormatter) FormatMatrix(view MatrixView) error {
	return f.execute(view)
}

func (f *TemplateFormatter) FormatReports(run Run) error {
	return f.execute(run)
}

func (f *TemplateFormatter) execute(data interface{}) error {
	if err := f.tmpl.Execute(f.out, data); err != nil {
		return fmt.Errorf("failed to execute output template: %w", err)
	}
	return nil
}
