package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/iconmine"
)

// escapePath makes a relative path usable as a Markdown link target.
func escapePath(p string) string {
	return strings.ReplaceAll(strings.ReplaceAll(p, `\`, "/"), " ", "%20")
}

// description renders the page for one icon. Each call builds its own text.
func (d *Dir) description(icon *iconmine.Icon) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s `%dx%d`\n", icon.Name, icon.Width, icon.Height)
	fmt.Fprintf(&b, "<img src=\"/%s\" width=%d height=%d>\n",
		escapePath(imagePath(icon.Name)), min(icon.Width, maxDetail), min(icon.Height, maxDetail))
	b.WriteString("\n")
	if d.snippetFmt != "" {
		fmt.Fprintf(&b, "```%s\n", d.snippetLang)
		fmt.Fprintf(&b, d.snippetFmt+"\n", icon.Name)
		b.WriteString("```\n")
	}
	b.WriteString("```\n")
	b.WriteString(icon.Name + "\n")
	b.WriteString("```\n")
	return b.String()
}

// readme renders the catalog table.
func (d *Dir) readme(entries []iconmine.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", d.title)
	fmt.Fprintf(&b, "%d icons.", len(entries))
	if d.snippetFmt != "" {
		fmt.Fprintf(&b, " Load icons using `"+d.snippetFmt+"`.", "<ICON NAME>")
	}
	b.WriteString("\n\n")
	b.WriteString("All icons are clickable, you will be forwarded to description file.\n\n")
	b.WriteString("| Icon | Name |\n")
	b.WriteString("|------|------|\n")

	for _, e := range entries {
		b.WriteString("| ")
		b.WriteString(imageLink(e.Primary, strconv.Itoa(e.DisplayWidth), strconv.Itoa(e.DisplayHeight)))
		if e.Secondary != nil {
			b.WriteString(" ")
			b.WriteString(imageLink(e.Secondary, half(e.DisplayWidth), half(e.DisplayHeight)))
		}
		fmt.Fprintf(&b, " | `%s`", e.Primary.Name)
		if e.Secondary != nil {
			fmt.Fprintf(&b, " `%s`", e.Secondary.Name)
		}
		b.WriteString(" |\n")
	}
	return b.String()
}

func imageLink(icon *iconmine.Icon, w, h string) string {
	return fmt.Sprintf("[<img src=\"%s\" width=%s height=%s title=\"%s\">](%s)",
		escapePath(imagePath(icon.Name)), w, h, icon.Name, escapePath(metaPath(icon.Name)))
}

// half formats n/2 without trailing zeros: 32, 10.5.
func half(n int) string {
	return strconv.FormatFloat(float64(n)/2, 'f', -1, 64)
}
