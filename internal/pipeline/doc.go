// Package pipeline turns notebooks into course units and units into
// artifacts.
//
// The stages are:
//   - Unit splitting: a notebook is cut into units at top-level "# " headings
//   - Classification: a unit's cells are batched; code cells carrying an
//     OLX payload become standalone components
//   - Rendering: each batch of ordinary cells is rendered to one HTML page
//     via Goldmark, with TeX spans protected from Markdown processing
//
// Tree assembly and serialization live in the course and olx packages. This
// package never touches the filesystem.
package pipeline
