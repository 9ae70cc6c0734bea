// Package markdown renders measure page text to HTML styled for GOV.UK.
package markdown

import (
	"fmt"
	stdhtml "html"
	"io"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

const (
	classHeadingL   = "govuk-heading-l"
	classHeadingM   = "govuk-heading-m"
	classHeadingS   = "govuk-heading-s"
	classBody       = "govuk-body"
	classListBullet = "govuk-list govuk-list--bullet"
	classListNumber = "govuk-list govuk-list--number"
	classTable      = "govuk-table"
)

// Render converts markdown to HTML. Blank input renders as "".
func Render(src string) string {
	if strings.TrimSpace(src) == "" {
		return ""
	}

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags:          html.CommonFlags,
		RenderNodeHook: govukHook,
	})
	return string(markdown.ToHTML([]byte(src), p, renderer))
}

func govukHook(w io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
	switch n := node.(type) {
	case *ast.Heading:
		if entering {
			id := ""
			if n.HeadingID != "" {
				id = fmt.Sprintf(` id="%s"`, stdhtml.EscapeString(n.HeadingID))
			}
			fmt.Fprintf(w, `<h%d%s class="%s">`, n.Level, id, headingClass(n.Level))
		} else {
			fmt.Fprintf(w, "</h%d>\n", n.Level)
		}
		return ast.GoToNext, true

	case *ast.Paragraph:
		// tight list items keep the default rendering
		if _, inList := n.Parent.(*ast.ListItem); inList {
			return ast.GoToNext, false
		}
		if entering {
			fmt.Fprintf(w, `<p class="%s">`, classBody)
		} else {
			io.WriteString(w, "</p>\n")
		}
		return ast.GoToNext, true

	case *ast.List:
		if n.ListFlags&ast.ListTypeDefinition != 0 {
			return ast.GoToNext, false
		}
		tag, class := "ul", classListBullet
		if n.ListFlags&ast.ListTypeOrdered != 0 {
			tag, class = "ol", classListNumber
		}
		if entering {
			fmt.Fprintf(w, `<%s class="%s">`+"\n", tag, class)
		} else {
			fmt.Fprintf(w, "</%s>\n", tag)
		}
		return ast.GoToNext, true

	case *ast.Table:
		if entering {
			fmt.Fprintf(w, `<table class="%s">`+"\n", classTable)
		} else {
			io.WriteString(w, "</table>\n")
		}
		return ast.GoToNext, true
	}
	return ast.GoToNext, false
}

func headingClass(level int) string {
	switch level {
	case 1:
		return classHeadingL
	case 2:
		return classHeadingM
	default:
		return classHeadingS
	}
}
