// Package pdftest builds minimal but well-formed PDF files for tests,
// with one line of Helvetica text per page.
package pdftest

import (
	"bytes"
	"fmt"
)

// MakePDF returns a complete single-font PDF with one page per entry in
// pageTexts. Texts must be plain ASCII without parentheses or
// backslashes; they are embedded verbatim in the content streams.
func MakePDF(pageTexts []string) []byte {
	n := len(pageTexts)
	// Object layout: 1 catalog, 2 page tree, 3..2+n pages,
	// 3+n..2+2n content streams, 3+2n font.
	fontObj := 3 + 2*n

	objs := make([]string, 0, fontObj)
	objs = append(objs, "<< /Type /Catalog /Pages 2 0 R >>")

	kids := ""
	for i := 0; i < n; i++ {
		kids += fmt.Sprintf("%d 0 R ", 3+i)
	}
	objs = append(objs, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, n))

	for i := 0; i < n; i++ {
		objs = append(objs, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>",
			fontObj, 3+n+i))
	}
	for i := 0; i < n; i++ {
		stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", pageTexts[i])
		objs = append(objs, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}
	objs = append(objs, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs)+1)
	for i, body := range objs {
		offsets[i+1] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xrefStart := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objs)+1)
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= len(objs); i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xrefStart)
	return buf.Bytes()
}
