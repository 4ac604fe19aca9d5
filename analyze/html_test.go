package analyze

import (
	"strings"
	"testing"
)

func TestExtractStyles(t *testing.T) {
	doc := `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <style>
    .grid { display: grid; }
  </style>
  <style type="text/css">a > b { color: red }</style>
</head>
<body>
  <p style="color: blue">text with { braces }</p>
  <div style="  ">empty style</div>
  <script>var css = "p { width: fit-content(1em) }";</script>
</body>
</html>`

	got, err := extractStyles([]byte(doc))
	if err != nil {
		t.Fatalf("extractStyles() error = %v", err)
	}
	for _, want := range []string{".grid { display: grid; }", "a > b { color: red }", "* {\ncolor: blue\n}"} {
		if !strings.Contains(got, want) {
			t.Errorf("extracted text has no %q:\n%s", want, got)
		}
	}
	for _, unwanted := range []string{"fit-content", "braces", "empty style"} {
		if strings.Contains(got, unwanted) {
			t.Errorf("extracted text must not contain %q:\n%s", unwanted, got)
		}
	}
}

func TestExtractStyles_SelfClosingStyle(t *testing.T) {
	doc := `<html xmlns="http://www.w3.org/1999/xhtml"><head><style/></head><body><p>color: red;</p></body></html>`
	got, err := extractStyles([]byte(doc))
	if err != nil {
		t.Fatalf("extractStyles() error = %v", err)
	}
	if strings.Contains(got, "color") {
		t.Errorf("text outside of style element extracted: %q", got)
	}
}

func TestExtractStyles_Charset(t *testing.T) {
	// windows-1251 encoded comment must not break extraction
	doc := append([]byte(`<html><head><meta charset="windows-1251"><style>/* `), 0xcf, 0xf0, 0xe8)
	doc = append(doc, []byte(` */ p { color: red }</style></head></html>`)...)

	got, err := extractStyles(doc)
	if err != nil {
		t.Fatalf("extractStyles() error = %v", err)
	}
	if !strings.Contains(got, "/* При */") {
		t.Errorf("comment was not decoded: %q", got)
	}
	if !strings.Contains(got, "p { color: red }") {
		t.Errorf("rule was not extracted: %q", got)
	}
}

func TestExtractStyles_NoStyles(t *testing.T) {
	got, err := extractStyles([]byte(`<p>nothing here</p>`))
	if err != nil {
		t.Fatalf("extractStyles() error = %v", err)
	}
	if strings.TrimSpace(got) != "" {
		t.Errorf("expected empty text, got %q", got)
	}
}

func TestIsHTML(t *testing.T) {
	for name, want := range map[string]bool{
		"index.html":        true,
		"page.HTM":          true,
		"OEBPS/ch01.xhtml":  true,
		"style.css":         false,
		"html":              false,
		"notes.html.backup": false,
	} {
		if got := isHTML(name); got != want {
			t.Errorf("isHTML(%q) = %v, want %v", name, got, want)
		}
	}
}
