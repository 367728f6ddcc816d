// Package assets provides the page templates and scripts published with a
// compiled course.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in templates)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// AssetResolver is the loader used by the compiler. It tries the custom
// FilesystemLoader first and falls back to EmbeddedLoader when the asset is
// not found, so a course can override the iframe wrapper alone.
//
// The iframe-resizer script is loaded once per compilation through a
// ScriptLoader: over HTTP, from a local file, or as a fixed string.
//
// # Directory Structure
//
//	{basePath}/
//	└── templates/
//	    └── {name}.html          # e.g. iframe.html
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
