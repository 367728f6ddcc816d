package assets

import (
	"fmt"
	"strings"
	"text/template"
)

// IframeParams fills the iframe wrapper template.
type IframeParams struct {
	ID         string // leaf identifier; also the published page name
	Host       string // host and path serving the rendered pages
	TestDomain string // edX domain that switches to the "test." host
	Script     string // inlined resizer script
	ScriptURL  string // resizer script location for AMD loaders
}

// IframeRenderer produces the wrapper page embedded in the course for each
// rendered leaf. The page loads the real content from Host in an iframe.
type IframeRenderer struct {
	tmpl       *template.Template
	host       string
	testDomain string
	script     string
	scriptURL  string
}

// NewIframeRenderer loads the iframe template from loader. Every page gets
// the same host, test domain and script.
func NewIframeRenderer(loader AssetLoader, host, testDomain, script, scriptURL string) (*IframeRenderer, error) {
	src, err := loader.LoadTemplate(IframeTemplateName)
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New(IframeTemplateName).Option("missingkey=error").Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}

	return &IframeRenderer{
		tmpl:       tmpl,
		host:       strings.TrimSuffix(host, "/"),
		testDomain: testDomain,
		script:     script,
		scriptURL:  scriptURL,
	}, nil
}

// Render returns the wrapper page for id.
func (r *IframeRenderer) Render(id string) (string, error) {
	var buf strings.Builder
	err := r.tmpl.Execute(&buf, IframeParams{
		ID:         id,
		Host:       r.host,
		TestDomain: r.testDomain,
		Script:     r.script,
		ScriptURL:  r.scriptURL,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}
	return buf.String(), nil
}
