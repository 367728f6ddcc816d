// Package nb2edx compiles a folder of Jupyter notebooks into an edX OLX
// course archive.
//
// # Quick Start
//
//	comp := nb2edx.NewCompiler(
//	    nb2edx.WithReleaseDates(map[string]time.Time{"Week 1": week1}),
//	)
//
//	result, err := comp.Compile(ctx, nb2edx.Input{
//	    ContentDir: "src",
//	    RootDir:    ".",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.ArchivePath)
//
// # Compilation Pipeline
//
//  1. The syllabus notebook lists sections (bold items) and their
//     subsection notebooks (indented links).
//  2. Sections without a release date are skipped unless Input.FullContent
//     is set.
//  3. Every subsection notebook is split into units at "# " headings.
//  4. Each unit's cells are rendered to HTML pages, except code cells whose
//     output is an edX component (application/vnd.edx.olxml+xml), which are
//     embedded as-is.
//  5. The chapter / sequential / vertical tree is written as course.xml into
//     a copy of the edX skeleton, rendered pages go to generated/html/edx,
//     and the tree is packed into generated/import_to_edx.tar.gz.
//
// Identifiers (sec_00, subsec_01_02, ...) depend only on positions in the
// syllabus and notebooks, so recompiling unchanged sources yields the same
// files.
package nb2edx
