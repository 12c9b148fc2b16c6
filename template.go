package mdbrief

import (
	"bytes"
	"fmt"
	"html/template"

	"mdbrief/internal/assets"
)

// defaultStyleName is the embedded stylesheet used for every document.
const defaultStyleName = "document"

// coverData holds cover page fields for template rendering.
type coverData struct {
	TitleMain   string
	TitleAccent string
	Subtitle    string
	Author      string
	Date        string
}

// documentData holds the assembled parts of the final HTML document.
// Cover, TOC, and Body are generated markup, not user input.
type documentData struct {
	Title string
	CSS   template.CSS
	Cover template.HTML
	TOC   template.HTML
	Body  template.HTML
}

// documentAssembler renders the final HTML document from its parts using
// the embedded templates and stylesheet.
type documentAssembler struct {
	docTmpl   *template.Template
	coverTmpl *template.Template
	css       string
}

// newDocumentAssembler loads the embedded templates and stylesheet.
// Panics if an embedded asset cannot be loaded or parsed (programmer error).
func newDocumentAssembler() *documentAssembler {
	docContent, err := assets.LoadTemplate("document")
	if err != nil {
		panic("failed to load document template: " + err.Error())
	}
	docTmpl, err := template.New("document").Parse(docContent)
	if err != nil {
		panic("failed to parse document template: " + err.Error())
	}

	coverContent, err := assets.LoadTemplate("cover")
	if err != nil {
		panic("failed to load cover template: " + err.Error())
	}
	coverTmpl, err := template.New("cover").Parse(coverContent)
	if err != nil {
		panic("failed to parse cover template: " + err.Error())
	}

	css, err := assets.LoadStyle(defaultStyleName)
	if err != nil {
		panic("failed to load stylesheet: " + err.Error())
	}

	return &documentAssembler{docTmpl: docTmpl, coverTmpl: coverTmpl, css: css}
}

// renderCover renders the cover page markup. Returns "" when cover is nil.
func (a *documentAssembler) renderCover(cover *coverData) (string, error) {
	if cover == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if err := a.coverTmpl.Execute(&buf, cover); err != nil {
		return "", fmt.Errorf("%w: %v", ErrCoverRender, err)
	}
	return buf.String(), nil
}

// Assemble builds the complete HTML document from the cover, TOC, and body.
func (a *documentAssembler) Assemble(title string, cover *coverData, tocHTML, bodyHTML string) (string, error) {
	coverHTML, err := a.renderCover(cover)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = a.docTmpl.Execute(&buf, documentData{
		Title: title,
		CSS:   template.CSS(a.css),
		Cover: template.HTML(coverHTML), // #nosec G203 -- generated by renderCover, not user input
		TOC:   template.HTML(tocHTML),   // #nosec G203 -- generated by buildTOC with escaped titles
		Body:  template.HTML(bodyHTML),  // #nosec G203 -- generated by goldmark
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDocumentRender, err)
	}
	return buf.String(), nil
}
