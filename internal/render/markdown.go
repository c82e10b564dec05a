package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/hpungsan/acta/internal/viewmodel"
)

var md = goldmark.New(goldmark.WithExtensions(extension.Table))

// Markdown renders vm as a plain-text preview of the minutes.
func Markdown(vm *viewmodel.ViewModel) string {
	if vm == nil {
		return ""
	}
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", vm.Title)
	fmt.Fprintf(&b, "**%s** · %s\n\n", escapeMD(vm.CommunityName), escapeMD(vm.Address))
	fmt.Fprintf(&b, "%s · %s · %s – %s\n\n", escapeMD(vm.Date), escapeMD(vm.Place), escapeMD(vm.StartTime), escapeMD(vm.EndTime))
	fmt.Fprintf(&b, "- %s: %s\n- %s: %s\n\n", vm.ChairLabel, escapeMD(vm.Chair), vm.SecretaryLabel, escapeMD(vm.Secretary))

	fmt.Fprintf(&b, "## %s\n\n", vm.AgendaLabel)
	for _, p := range vm.Agenda {
		fmt.Fprintf(&b, "%d. %s\n", p.PointID, escapeMD(p.Title))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## %s\n\n%s\n\n", vm.AttendeesLabel, vm.AttendeesIntro)
	writeRow(&b, vm.AttendeeHeaders[:])
	writeRow(&b, []string{"---", "---", "---", "---"})
	for _, a := range vm.Attendees {
		writeRow(&b, []string{a.Unit, a.Coefficient, a.Owner, a.Representative})
	}
	fmt.Fprintf(&b, "\n%s\n\n", vm.Quorum)

	fmt.Fprintf(&b, "## %s\n\n", vm.ResolutionsLabel)
	for _, r := range vm.Resolutions {
		fmt.Fprintf(&b, "**%s.** %s\n\n", r.Ordinal, escapeMD(r.Summary))
		if r.Decisions != "" {
			fmt.Fprintf(&b, "%s\n\n", escapeMD(r.Decisions))
		}
		fmt.Fprintf(&b, "%s\n\n", r.Result)
	}

	if len(vm.Funds) > 0 {
		fmt.Fprintf(&b, "## %s\n\n", vm.FundsLabel)
		writeRow(&b, vm.FundHeaders[:])
		writeRow(&b, []string{"---", "---", "---", "---", "---"})
		for _, f := range vm.Funds {
			writeRow(&b, []string{f.Name, f.PreviousBalance, f.Income, f.Expenses, f.CurrentBalance})
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "%s\n\n", vm.Closing)
	fmt.Fprintf(&b, "%s: %s · %s: %s\n", vm.ChairLabel, escapeMD(vm.ChairSignature), vm.SecretaryLabel, escapeMD(vm.SecretarySignature))
	return b.String()
}

// MarkdownHTML converts Markdown to HTML. Raw HTML in the source is not
// passed through.
func MarkdownHTML(src string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("|")
	for _, c := range cells {
		b.WriteString(" ")
		b.WriteString(escapeMD(c))
		b.WriteString(" |")
	}
	b.WriteString("\n")
}

var mdEscaper = strings.NewReplacer(
	`\`, `\\`,
	"|", `\|`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"<", "&lt;",
	">", "&gt;",
	"\n", " ",
)

// escapeMD keeps extracted text from being read as Markdown or HTML.
func escapeMD(s string) string {
	return mdEscaper.Replace(s)
}
