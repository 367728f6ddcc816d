package nb2edx

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/alnah/go-nb2edx/internal/archive"
	"github.com/alnah/go-nb2edx/internal/assets"
	"github.com/alnah/go-nb2edx/internal/course"
	"github.com/alnah/go-nb2edx/internal/fileutil"
	"github.com/alnah/go-nb2edx/internal/logger"
	"github.com/alnah/go-nb2edx/internal/notebook"
	"github.com/alnah/go-nb2edx/internal/olx"
	"github.com/alnah/go-nb2edx/internal/pipeline"
	"github.com/alnah/go-nb2edx/internal/syllabus"
)

// Working tree and output layout.
const (
	courseFile   = "course.xml"
	workTreeName = "course"
	htmlDir      = "html"
	publishDir   = "html/edx"
	figuresDir   = "html/edx/figures"
	debugDir     = "files"
)

// Compiler turns a notebook folder into an edX course archive. A Compiler
// is safe to reuse; the resizer script is loaded once.
type Compiler struct {
	cfg          compilerConfig
	zap          *zap.Logger
	log          *logger.Logger
	reader       notebook.Reader
	scriptLoader ScriptLoader

	scriptMu     sync.Mutex
	script       string
	scriptLoaded bool
}

// NewCompiler creates a Compiler. Use options to customize behavior.
func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{
		cfg:    defaultCompilerConfig(),
		zap:    zap.NewNop(),
		reader: notebook.FileReader{},
	}
	for _, opt := range opts {
		opt(c)
	}

	c.log = logger.FromZap(c.zap)
	if c.scriptLoader == nil {
		c.scriptLoader = assets.NewScriptLoader(c.cfg.scriptURL)
	}
	return c
}

// Compile runs the whole pipeline. Nothing is written to the output
// directory unless every notebook converts; the working tree is removed
// before returning.
func (c *Compiler) Compile(ctx context.Context, in Input) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	paths := c.resolvePaths(in)

	iframes, err := c.iframeRenderer(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := c.loadSyllabus(in, paths)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		c.log.Warn("no section to compile", "fullContent", in.FullContent)
	}

	builder := course.NewBuilder(c.reader,
		pipeline.NewClassifier(pipeline.NewNotebookRenderer(c.renderConfig())),
		course.WithStartHour(c.cfg.startHour),
		course.WithDayOffset(c.cfg.dayOffset),
		course.WithLogger(c.log),
	)
	tree, err := builder.Build(ctx, entries)
	if err != nil {
		return nil, err
	}

	tmp, err := os.MkdirTemp("", "nb2edx-*")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	defer func() { _ = os.RemoveAll(tmp) }()
	work := filepath.Join(tmp, workTreeName)
	c.log.Debug("working tree", "path", work)

	root, err := c.prepareWorkTree(paths, work)
	if err != nil {
		return nil, err
	}

	tree.OLX(root)
	courseXML := olx.RewriteMath(string(olx.Marshal(root)))
	if err := fileutil.WriteFile(filepath.Join(work, courseFile), courseXML); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}

	result := &Result{CourseXML: courseXML, Chapters: len(tree.Chapters)}

	for _, leaf := range tree.HTMLLeaves() {
		page := filepath.Join(paths.output, filepath.FromSlash(publishDir), leaf.URLName+".html")
		if err := fileutil.WriteFile(page, leaf.HTML); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
		wrapper, err := iframes.Render(leaf.URLName)
		if err != nil {
			return nil, err
		}
		if err := fileutil.WriteFile(filepath.Join(work, htmlDir, leaf.URLName+".html"), wrapper); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
		result.HTMLFiles = append(result.HTMLFiles, page)
	}

	result.Figures, err = fileutil.CopyFigures(in.ContentDir,
		filepath.Join(paths.output, filepath.FromSlash(figuresDir)), c.cfg.figurePattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}

	result.ArchivePath = filepath.Join(paths.output, c.cfg.archiveName)
	if err := archive.TarGz(work, result.ArchivePath); err != nil {
		return nil, err
	}

	if in.Debug {
		result.DebugDir = filepath.Join(paths.output, debugDir)
		if err := os.RemoveAll(result.DebugDir); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
		if err := fileutil.CopyTree(work, result.DebugDir); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
	}

	c.log.Info("compiled course",
		"chapters", result.Chapters,
		"pages", len(result.HTMLFiles),
		"figures", len(result.Figures),
		"archive", result.ArchivePath,
	)
	return result, nil
}

type compilePaths struct {
	syllabus string
	output   string
	skeleton string
	explicit bool // skeleton given by the caller
}

func (c *Compiler) resolvePaths(in Input) compilePaths {
	root := in.RootDir
	if root == "" {
		root = "."
	}
	p := compilePaths{
		syllabus: filepath.Join(in.ContentDir, DefaultSyllabus),
		output:   filepath.Join(root, DefaultGeneratedDir),
		skeleton: filepath.Join(root, DefaultSkeletonDir),
	}
	if in.Syllabus != "" {
		p.syllabus = filepath.Join(in.ContentDir, in.Syllabus)
	}
	if in.OutputDir != "" {
		p.output = in.OutputDir
	}
	if in.SkeletonDir != "" {
		p.skeleton = in.SkeletonDir
		p.explicit = true
	}
	return p
}

func (c *Compiler) renderConfig() pipeline.RenderConfig {
	cfg := pipeline.DefaultRenderConfig()
	cfg.IncludeInput = c.cfg.includeInput
	return cfg
}

// loadScript fetches the resizer script on first use. Failures are not
// cached.
func (c *Compiler) loadScript(ctx context.Context) (string, error) {
	c.scriptMu.Lock()
	defer c.scriptMu.Unlock()

	if c.scriptLoaded {
		return c.script, nil
	}
	script, err := c.scriptLoader.LoadScript(ctx)
	if err != nil {
		return "", err
	}
	c.script, c.scriptLoaded = script, true
	return script, nil
}

func (c *Compiler) iframeRenderer(ctx context.Context) (*assets.IframeRenderer, error) {
	loader, err := assets.NewAssetResolver(c.cfg.assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	if loader.HasCustomLoader() {
		c.log.Debug("loading templates", "path", c.cfg.assetPath)
	}

	script, err := c.loadScript(ctx)
	if err != nil {
		if errors.Is(err, assets.ErrScriptLoad) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrScriptLoad, err)
	}

	return assets.NewIframeRenderer(loader, c.cfg.iframeHost, c.cfg.testDomain, script, c.cfg.scriptURL)
}

func (c *Compiler) loadSyllabus(in Input, paths compilePaths) ([]syllabus.Entry, error) {
	nb, err := c.reader.ReadNotebook(paths.syllabus)
	if err != nil {
		return nil, err
	}

	entries, err := syllabus.Parse(nb, c.cfg.releaseDates, syllabus.Options{
		Strict:     c.cfg.strictSyllabus,
		ContentDir: in.ContentDir,
		Logger:     c.log,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", paths.syllabus, err)
	}

	kept := syllabus.Filter(entries, in.FullContent)
	if skipped := len(entries) - len(kept); skipped > 0 {
		c.log.Info("skipping sections without a release date", "skipped", skipped)
	}
	return kept, nil
}

// prepareWorkTree copies the skeleton to work and returns its course root.
// Without a skeleton the root is a bare <course/>.
func (c *Compiler) prepareWorkTree(paths compilePaths, work string) (*olx.Element, error) {
	skeleton := paths.skeleton
	if !fileutil.DirExists(skeleton) {
		if paths.explicit {
			return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidSkeleton, skeleton)
		}
		c.log.Debug("no edX skeleton, using a bare course root", "skeleton", skeleton)
		if err := os.MkdirAll(work, fileutil.DirPerm); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
		return olx.NewElement("course"), nil
	}

	if err := fileutil.CopyTree(skeleton, work); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSkeleton, err)
	}

	data, err := os.ReadFile(filepath.Join(work, courseFile)) // #nosec G304 -- inside the working tree
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return olx.NewElement("course"), nil
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidSkeleton, err)
	}
	root, err := olx.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSkeleton, courseFile, err)
	}
	return root, nil
}
