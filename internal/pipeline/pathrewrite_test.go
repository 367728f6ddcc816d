package pipeline

import (
	"strings"
	"testing"
)

func TestFlattenFigurePaths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		html         string
		wantContains []string
		wantExcludes []string
	}{
		{
			name:         "sibling week figure flattened",
			html:         `<img src="../w1_topo/figures/band.svg">`,
			wantContains: []string{`src="figures/band.svg"`},
			wantExcludes: []string{"w1_topo"},
		},
		{
			name:         "already flat figure kept",
			html:         `<p><img src="figures/a.png"/></p>`,
			wantContains: []string{`src="figures/a.png"`},
		},
		{
			name:         "dot slash prefix",
			html:         `<img src="./figures/a.png">`,
			wantContains: []string{`src="figures/a.png"`},
		},
		{
			name:         "link to figure flattened",
			html:         `<a href="w2_x/figures/movie.mp4">movie</a>`,
			wantContains: []string{`href="figures/movie.mp4"`},
		},
		{
			name:         "video source flattened",
			html:         `<video><source src="w2_x/figures/m.mp4"/></video>`,
			wantContains: []string{`src="figures/m.mp4"`},
		},
		{
			name:         "nested figure directory is not a figure path",
			html:         `<img src="w1/figures/sub/a.png">`,
			wantContains: []string{`src="w1/figures/sub/a.png"`},
		},
		{
			name:         "http URL unchanged",
			html:         `<img src="https://example.com/figures/logo.png">`,
			wantContains: []string{`src="https://example.com/figures/logo.png"`},
		},
		{
			name:         "absolute path unchanged",
			html:         `<img src="/static/figures/logo.png">`,
			wantContains: []string{`src="/static/figures/logo.png"`},
		},
		{
			name:         "script src not rewritten",
			html:         `<script src="w1/figures/x.js"></script>`,
			wantContains: []string{`src="w1/figures/x.js"`},
		},
		{
			name:         "no figure reference is returned byte-identical",
			html:         `<img src="./logo.png" ALT=x>`,
			wantContains: []string{`<img src="./logo.png" ALT=x>`},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := FlattenFigurePaths(tt.html)
			if err != nil {
				t.Fatalf("FlattenFigurePaths() error = %v", err)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("result missing %q\ngot: %s", want, got)
				}
			}
			for _, unwanted := range tt.wantExcludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("result should not contain %q\ngot: %s", unwanted, got)
				}
			}
		})
	}
}
