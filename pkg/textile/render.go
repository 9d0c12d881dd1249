package textile

import (
	"strings"
	"unicode"

	"github.com/arthur-debert/textilize/pkg/preprocess"
	"github.com/beevik/etree"
)

var blockTags = map[string]bool{
	"p": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "pre": true, "ul": true, "ol": true, "dl": true, "table": true,
	"hr": true, "div": true, "section": true, "article": true, "header": true,
	"footer": true, "main": true, "nav": true, "aside": true, "body": true, "html": true,
	"figure": true, "address": true, "fieldset": true, "form": true,
	fragmentRoot: true,
}

// Phrase modifiers keyed by element name
var phrases = map[string]string{
	"strong": "*", "b": "*",
	"em": "_", "i": "_",
	"code": "@", "tt": "@", "kbd": "@", "samp": "@",
	"del": "-", "s": "-", "strike": "-",
	"ins": "+", "u": "+",
	"sup": "^",
	"sub": "~",
	"cite": "??",
}

type renderer struct {
	markers preprocess.Markers
}

func tag(e *etree.Element) string {
	return strings.ToLower(e.Tag)
}

func (r *renderer) isMarker(e *etree.Element) bool {
	return tag(e) == r.markers.Element && e.SelectAttr(r.markers.Attribute) != nil
}

func (r *renderer) isBlock(e *etree.Element) bool {
	return blockTags[tag(e)]
}

// blocks renders the children of a container. Runs of inline content between
// block children become anonymous paragraphs.
func (r *renderer) blocks(e *etree.Element) []string {
	var out []string
	var para strings.Builder

	flush := func() {
		if text := cleanInline(para.String()); text != "" {
			out = append(out, text)
		}
		para.Reset()
	}

	for _, tok := range e.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			para.WriteString(collapse(t.Data))
		case *etree.Element:
			if r.isBlock(t) {
				flush()
				out = append(out, r.block(t)...)
			} else {
				para.WriteString(r.inline(t))
			}
		}
	}
	flush()
	return out
}

func (r *renderer) block(e *etree.Element) []string {
	name := tag(e)
	switch name {
	case "p", "address":
		text := cleanInline(r.inlineChildren(e))
		if text == "" {
			return nil
		}
		if class := e.SelectAttrValue("class", ""); class != "" {
			return []string{"p(" + class + "). " + text}
		}
		return []string{text}

	case "h1", "h2", "h3", "h4", "h5", "h6":
		text := cleanInline(r.inlineChildren(e))
		if text == "" {
			return nil
		}
		return []string{name + ". " + text}

	case "blockquote":
		inner := r.blocks(e)
		switch len(inner) {
		case 0:
			return nil
		case 1:
			return []string{"bq. " + inner[0]}
		default:
			return []string{"bq.. " + strings.Join(inner, "\n\n")}
		}

	case "pre":
		return r.pre(e)

	case "ul", "ol":
		lines := r.list(e, "")
		if len(lines) == 0 {
			return nil
		}
		return []string{strings.Join(lines, "\n")}

	case "dl":
		return r.definitions(e)

	case "table":
		rows := r.table(e)
		if len(rows) == 0 {
			return nil
		}
		return []string{strings.Join(rows, "\n")}

	case "hr":
		return []string{"<hr />"}

	default:
		return r.blocks(e)
	}
}

func (r *renderer) inline(e *etree.Element) string {
	if r.isMarker(e) {
		return ""
	}

	name := tag(e)
	switch name {
	case "br":
		return "\n"
	case "img":
		return image(e)
	case "a":
		return r.link(e)
	}

	if sym, ok := phrases[name]; ok {
		return wrap(sym, r.inlineChildren(e))
	}
	if r.isBlock(e) {
		return " " + r.inlineChildren(e) + " "
	}
	return r.inlineChildren(e)
}

func (r *renderer) inlineChildren(e *etree.Element) string {
	var b strings.Builder
	for _, tok := range e.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			b.WriteString(collapse(t.Data))
		case *etree.Element:
			b.WriteString(r.inline(t))
		}
	}
	return b.String()
}

func (r *renderer) link(e *etree.Element) string {
	href := e.SelectAttrValue("href", "")
	if href == "" {
		return r.inlineChildren(e)
	}

	children := e.ChildElements()
	if len(children) == 1 && tag(children[0]) == "img" && strings.TrimSpace(textOnly(e)) == "" {
		return image(children[0]) + ":" + href
	}

	text := strings.TrimSpace(strings.ReplaceAll(r.inlineChildren(e), "\n", " "))
	if text == "" {
		text = href
	}
	if title := e.SelectAttrValue("title", ""); title != "" {
		text += "(" + title + ")"
	}
	return `"` + text + `":` + href
}

func image(e *etree.Element) string {
	src := e.SelectAttrValue("src", "")
	if src == "" {
		return ""
	}
	if alt := e.SelectAttrValue("alt", ""); alt != "" {
		return "!" + src + "(" + alt + ")!"
	}
	return "!" + src + "!"
}

// pre renders preformatted text. A line marker starts a new line unless it is
// the first thing inside the block.
func (r *renderer) pre(e *etree.Element) []string {
	var b strings.Builder
	r.preText(e, &b)

	lines := strings.Split(b.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRightFunc(line, unicode.IsSpace)
	}
	text := strings.Trim(strings.Join(lines, "\n"), "\n")
	if text == "" {
		return nil
	}

	signature := "pre"
	if children := e.ChildElements(); len(children) > 0 && tag(children[0]) == "code" && strings.TrimSpace(textOnly(e)) == "" {
		signature = "bc"
	}
	if strings.Contains(text, "\n\n") {
		signature += ".."
	} else {
		signature += "."
	}
	return []string{signature + " " + text}
}

func (r *renderer) preText(e *etree.Element, b *strings.Builder) {
	for _, tok := range e.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			b.WriteString(t.Data)
		case *etree.Element:
			switch {
			case r.isMarker(t):
				if b.Len() > 0 {
					b.WriteString("\n")
				}
			case tag(t) == "br":
				b.WriteString("\n")
			default:
				r.preText(t, b)
			}
		}
	}
}

func (r *renderer) list(e *etree.Element, prefix string) []string {
	sym := "*"
	if tag(e) == "ol" {
		sym = "#"
	}
	prefix += sym

	var lines []string
	for _, item := range e.ChildElements() {
		if tag(item) != "li" {
			continue
		}

		var text strings.Builder
		var nested []string
		for _, tok := range item.Child {
			switch t := tok.(type) {
			case *etree.CharData:
				text.WriteString(collapse(t.Data))
			case *etree.Element:
				if n := tag(t); n == "ul" || n == "ol" {
					nested = append(nested, r.list(t, prefix)...)
				} else {
					text.WriteString(r.inline(t))
				}
			}
		}

		if line := singleLine(text.String()); line != "" {
			lines = append(lines, prefix+" "+line)
		}
		lines = append(lines, nested...)
	}
	return lines
}

func (r *renderer) definitions(e *etree.Element) []string {
	var lines []string
	var term string
	for _, child := range e.ChildElements() {
		switch tag(child) {
		case "dt":
			if term != "" {
				lines = append(lines, "- "+term)
			}
			term = singleLine(r.inlineChildren(child))
		case "dd":
			def := singleLine(r.inlineChildren(child))
			lines = append(lines, "- "+term+" := "+def)
			term = ""
		}
	}
	if term != "" {
		lines = append(lines, "- "+term)
	}
	if len(lines) == 0 {
		return nil
	}
	return []string{strings.Join(lines, "\n")}
}

func (r *renderer) table(e *etree.Element) []string {
	var rows []string
	for _, child := range e.ChildElements() {
		switch tag(child) {
		case "tr":
			if row := r.row(child); row != "" {
				rows = append(rows, row)
			}
		case "thead", "tbody", "tfoot":
			rows = append(rows, r.table(child)...)
		}
	}
	return rows
}

func (r *renderer) row(tr *etree.Element) string {
	var b strings.Builder
	for _, cell := range tr.ChildElements() {
		text := singleLine(r.inlineChildren(cell))
		switch tag(cell) {
		case "th":
			b.WriteString("|_. " + text)
		case "td":
			b.WriteString("|" + text)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return b.String() + "|"
}

// textOnly returns the direct character data of e
func textOnly(e *etree.Element) string {
	var b strings.Builder
	for _, tok := range e.Child {
		if cd, ok := tok.(*etree.CharData); ok {
			b.WriteString(cd.Data)
		}
	}
	return b.String()
}

// collapse folds whitespace runs into one space
func collapse(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !space {
				b.WriteByte(' ')
			}
			space = true
			continue
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}

// cleanInline trims every line of rendered inline text and drops empty
// leading and trailing lines
func cleanInline(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.Trim(strings.Join(lines, "\n"), "\n")
}

func singleLine(s string) string {
	return strings.TrimSpace(collapse(s))
}

// wrap surrounds the trimmed content with a phrase modifier, keeping the
// surrounding whitespace outside it
func wrap(sym, inner string) string {
	trimmed := strings.TrimSpace(inner)
	if trimmed == "" {
		return inner
	}
	lead := inner[:len(inner)-len(strings.TrimLeftFunc(inner, unicode.IsSpace))]
	trail := inner[len(strings.TrimRightFunc(inner, unicode.IsSpace)):]
	return lead + sym + trimmed + sym + trail
}
