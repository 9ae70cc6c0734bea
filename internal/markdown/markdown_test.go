package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderBlank(t *testing.T) {
	assert.Equal(t, "", Render(""))
	assert.Equal(t, "", Render(" \n\t "))
}

func TestRenderHeadings(t *testing.T) {
	out := Render("# Main points\n\n## Things you need to know\n\n### Methodology\n")
	assert.Contains(t, out, `<h1 id="main-points" class="govuk-heading-l">Main points</h1>`)
	assert.Contains(t, out, `<h2 id="things-you-need-to-know" class="govuk-heading-m">`)
	assert.Contains(t, out, `<h3 id="methodology" class="govuk-heading-s">`)
}

func TestRenderEscapesCustomHeadingID(t *testing.T) {
	out := Render("# Title {#x\" onmouseover=\"alert(1)}")
	assert.NotContains(t, out, `" onmouseover="`)
	assert.Contains(t, out, `<h1 id="x&#34; onmouseover=&#34;alert(1)" class="govuk-heading-l">Title</h1>`)
}

func TestRenderParagraph(t *testing.T) {
	out := Render("Employment rates *rose* in 2018.")
	assert.Contains(t, out, `<p class="govuk-body">Employment rates <em>rose</em> in 2018.</p>`)
}

func TestRenderLists(t *testing.T) {
	bullets := Render("- White\n- Mixed\n")
	assert.Contains(t, bullets, `<ul class="govuk-list govuk-list--bullet">`)
	assert.Contains(t, bullets, "<li>White</li>")
	assert.NotContains(t, bullets, `<p class="govuk-body">White`)

	numbered := Render("1. First\n2. Second\n")
	assert.Contains(t, numbered, `<ol class="govuk-list govuk-list--number">`)
	assert.Contains(t, numbered, "</ol>")
}

func TestRenderTable(t *testing.T) {
	out := Render("| Ethnicity | % |\n|---|---|\n| Indian | 76 |\n")
	assert.Contains(t, out, `<table class="govuk-table">`)
	assert.Contains(t, out, "<td>Indian</td>")
	assert.Contains(t, out, "</table>")
}
