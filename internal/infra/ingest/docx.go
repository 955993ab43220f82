package ingest

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"strings"
)

// maxPartSize bounds how much of a single zip member is read.
const maxPartSize = 64 << 20

var errNoDocument = errors.New("docx: word/document.xml not found")

// shadeFills are the run shading fills rendered as grey highlights, keyed in
// upper case since Word writes hex fills in either case.
var shadeFills = map[string]bool{"AUTO": true, "F2F2F2": true}

// DocxToHTML renders the body of a .docx as simple HTML: headings, paragraphs,
// bullet lists, tables, and inline strong/em/u/s. Shaded or highlighted runs
// become <mark class="highlight-gray">.
func DocxToHTML(ctx context.Context, data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var body, styles *zip.File
	for _, f := range zr.File {
		switch f.Name {
		case "word/document.xml":
			body = f
		case "word/styles.xml":
			styles = f
		}
	}
	if body == nil {
		return "", errNoDocument
	}

	names := map[string]string{}
	if styles != nil {
		if names, err = readStyleNames(styles); err != nil {
			return "", fmt.Errorf("docx styles: %w", err)
		}
	}

	rc, err := body.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	w := &docxWriter{styles: names}
	if err := w.render(ctx, io.LimitReader(rc, maxPartSize)); err != nil {
		return "", fmt.Errorf("docx body: %w", err)
	}
	return w.out.String(), nil
}

// readStyleNames maps style ids ("Heading1", or localized ids) to display names ("heading 1").
func readStyleNames(f *zip.File) (map[string]string, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	names := map[string]string{}
	dec := xml.NewDecoder(io.LimitReader(rc, maxPartSize))
	current := ""
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return names, nil
		}
		if err != nil {
			return nil, err
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "style":
			current = attr(se, "styleId")
		case "name":
			if current != "" {
				names[current] = attr(se, "val")
			}
		}
	}
}

type runProps struct {
	bold, italic, underline, strike, shaded bool
}

type docxWriter struct {
	styles map[string]string
	out    strings.Builder

	// paragraph state
	inPara bool
	style  string
	listed bool
	para   strings.Builder

	// run state
	inRun  bool
	inText bool
	props  runProps
	text   strings.Builder

	inList bool
}

func (w *docxWriter) render(ctx context.Context, r io.Reader) error {
	dec := xml.NewDecoder(r)
	for n := 0; ; n++ {
		if n%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		tok, err := dec.Token()
		if err == io.EOF {
			w.closeList()
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			w.start(t)
		case xml.EndElement:
			w.end(t.Name.Local)
		case xml.CharData:
			if w.inText {
				w.text.WriteString(html.EscapeString(string(t)))
			}
		}
	}
}

func (w *docxWriter) start(se xml.StartElement) {
	switch se.Name.Local {
	case "p":
		w.inPara, w.style, w.listed = true, "", false
		w.para.Reset()
	case "pStyle":
		if w.inPara && !w.inRun {
			w.style = attr(se, "val")
		}
	case "numPr":
		if w.inPara && !w.inRun {
			w.listed = true
		}
	case "r":
		w.inRun = true
		w.props = runProps{}
		w.text.Reset()
	case "b":
		w.setProp(&w.props.bold, on(se))
	case "i":
		w.setProp(&w.props.italic, on(se))
	case "u":
		w.setProp(&w.props.underline, attr(se, "val") != "none")
	case "strike", "dstrike":
		w.setProp(&w.props.strike, on(se))
	case "shd":
		w.setProp(&w.props.shaded, shadeFills[strings.ToUpper(attr(se, "fill"))])
	case "highlight":
		w.setProp(&w.props.shaded, attr(se, "val") != "none")
	case "t":
		w.inText = w.inRun
	case "tab":
		if w.inRun {
			w.text.WriteString("\t")
		}
	case "br", "cr":
		if w.inRun {
			w.text.WriteString("<br />")
		}
	case "tbl":
		w.closeList()
		w.out.WriteString("<table>")
	case "tr":
		w.out.WriteString("<tr>")
	case "tc":
		w.out.WriteString("<td>")
	}
}

func (w *docxWriter) end(local string) {
	switch local {
	case "t":
		w.inText = false
	case "r":
		if w.inRun {
			w.para.WriteString(w.props.wrap(w.text.String()))
		}
		w.inRun = false
	case "p":
		w.flushParagraph()
	case "tc":
		w.closeList()
		w.out.WriteString("</td>")
	case "tr":
		w.out.WriteString("</tr>")
	case "tbl":
		w.out.WriteString("</table>")
	}
}

func (w *docxWriter) setProp(p *bool, v bool) {
	// properties under pPr/rPr describe the paragraph mark, not a run
	if w.inRun {
		*p = v
	}
}

func (w *docxWriter) flushParagraph() {
	w.inPara = false
	content := w.para.String()
	if strings.TrimSpace(content) == "" {
		return
	}
	if w.listed {
		if !w.inList {
			w.out.WriteString("<ul>")
			w.inList = true
		}
		w.out.WriteString("<li>" + content + "</li>")
		return
	}
	w.closeList()
	tag := w.blockTag()
	w.out.WriteString("<" + tag + ">" + content + "</" + tag + ">")
}

func (w *docxWriter) closeList() {
	if w.inList {
		w.out.WriteString("</ul>")
		w.inList = false
	}
}

func (w *docxWriter) blockTag() string {
	name := w.style
	if n, ok := w.styles[w.style]; ok && n != "" {
		name = n
	}
	key := strings.ToLower(strings.ReplaceAll(name, " ", ""))
	switch key {
	case "title":
		return "h1"
	case "subtitle":
		return "h2"
	case "codeblock":
		return "pre"
	}
	if strings.HasPrefix(key, "heading") && len(key) == len("heading")+1 {
		if d := key[len(key)-1]; d >= '1' && d <= '6' {
			return "h" + string(d)
		}
	}
	return "p"
}

func (p runProps) wrap(s string) string {
	if s == "" {
		return ""
	}
	if p.strike {
		s = "<s>" + s + "</s>"
	}
	if p.underline {
		s = "<u>" + s + "</u>"
	}
	if p.italic {
		s = "<em>" + s + "</em>"
	}
	if p.bold {
		s = "<strong>" + s + "</strong>"
	}
	if p.shaded {
		s = `<mark class="highlight-gray">` + s + "</mark>"
	}
	return s
}

func attr(se xml.StartElement, local string) string {
	for _, a := range se.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// on reads an OOXML toggle property: present without val, or val other than false/0/off.
func on(se xml.StartElement) bool {
	switch attr(se, "val") {
	case "false", "0", "off":
		return false
	}
	return true
}
