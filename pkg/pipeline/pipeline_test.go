package pipeline_test

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/arthur-debert/textilize/pkg/cascade"
	"github.com/arthur-debert/textilize/pkg/errors"
	"github.com/arthur-debert/textilize/pkg/filesystem"
	"github.com/arthur-debert/textilize/pkg/pipeline"
	"github.com/arthur-debert/textilize/pkg/preprocess"
	"github.com/arthur-debert/textilize/pkg/testutil"
	"github.com/arthur-debert/textilize/pkg/textile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const sample = "abc|;|&nbsp;|&lsquo;|&rsquo;|&|xyz"

var markerPattern = regexp.MustCompile(`<line n="\d+"/>`)

// passThrough stands in for the structural converter: it only drops line markers
var passThrough = pipeline.ConverterFunc(func(_ context.Context, s string) (string, error) {
	return strings.TrimSpace(markerPattern.ReplaceAllString(s, "")), nil
})

type mockConverter struct {
	mock.Mock
}

func (m *mockConverter) Convert(ctx context.Context, s string) (string, error) {
	args := m.Called(ctx, s)
	return args.String(0), args.Error(1)
}

func newPipeline(t *testing.T, env *testutil.TestEnvironment, conv pipeline.Converter, jobs int) *pipeline.Pipeline {
	t.Helper()
	pre, err := preprocess.New(preprocess.Options{})
	require.NoError(t, err)
	resolver := cascade.New(cascade.NewFSLookup(env.FS), cascade.Options{Defaults: cascade.NoDefaults})
	return pipeline.New(cascade.NewCaching(resolver), pre, conv, pipeline.Options{Jobs: jobs})
}

func runFile(t *testing.T, env *testutil.TestEnvironment, p *pipeline.Pipeline, rel string) (string, error) {
	t.Helper()
	in := env.Path(rel)
	out := filesystem.OutputPath(in, ".textile")
	err := p.Run(context.Background(), pipeline.FileUnit(env.FS, in, out))
	if err != nil {
		return "", err
	}
	data, readErr := filesystem.ReadFile(env.FS, out)
	require.NoError(t, readErr)
	return string(data), nil
}

func TestRun_IdentityWhenUnconfigured(t *testing.T) {
	env := testutil.NewTestEnvironment(t).WithFileTree(testutil.FileTree{
		"docs": testutil.FileTree{"page.html": sample},
	})
	p := newPipeline(t, env, passThrough, 1)

	got, err := runFile(t, env, p, "docs/page.html")
	require.NoError(t, err)
	assert.Equal(t, sample, got)
}

func TestRun_CascadingOverrides(t *testing.T) {
	env := testutil.NewTestEnvironment(t).WithFileTree(testutil.FileTree{
		".textilize-pre.rules": testutil.RuleFile(
			`REPLACE "&nbsp;" WITH " "`,
			`REPLACE "&lsquo;" WITH "'"`,
			`REPLACE "&rsquo;" WITH "'"`,
		),
		"page.html": sample,
		"a": testutil.FileTree{
			".textilize-pre.rules": `REPLACE "&rsquo;" WITH "!!!"`,
			"page.html":            sample,
		},
		"b": testutil.FileTree{
			".textilize-pre.rules": testutil.RuleFile(
				`REPLACE "&lsquo;" WITH "{}"`,
				`REPLACE "&rsquo;" WITH "???"`,
			),
			"page.html": sample,
		},
	})
	p := newPipeline(t, env, passThrough, 1)

	tests := []struct {
		name string
		file string
		want string
	}{
		{"single_source", "page.html", "abc|;| |'|'|&|xyz"},
		{"descendant_override", "a/page.html", "abc|;| |'|!!!|&|xyz"},
		{"sibling_not_leaking", "b/page.html", "abc|;| |{}|???|&|xyz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runFile(t, env, p, tt.file)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRun_PostprocessRules(t *testing.T) {
	env := testutil.NewTestEnvironment(t).WithFileTree(testutil.FileTree{
		".textilize-post.rules": testutil.RuleFile(`REPLACE PATTERN "^abc" WITH "ABC"`),
		"page.html":             sample,
	})
	p := newPipeline(t, env, passThrough, 1)

	got, err := runFile(t, env, p, "page.html")
	require.NoError(t, err)
	assert.Equal(t, "ABC|;|&nbsp;|&lsquo;|&rsquo;|&|xyz", got)
}

func TestRun_MalformedRule(t *testing.T) {
	env := testutil.NewTestEnvironment(t).WithFileTree(testutil.FileTree{
		".textilize-pre.rules": `REPLACE "x" "y"`,
		"page.html":            sample,
	})
	p := newPipeline(t, env, passThrough, 1)

	_, err := runFile(t, env, p, "page.html")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrMalformedRule))
	assert.Equal(t, env.Path("page.html"), errors.GetErrorDetails(err)[errors.DetailUnit])
	assert.Contains(t, err.Error(), env.Path("page.html"))

	assert.False(t, filesystem.Exists(env.FS, env.Path("page.textile")), "no output for a failed unit")
}

func TestRun_ConversionFailure(t *testing.T) {
	env := testutil.NewTestEnvironment(t).WithFileTree(testutil.FileTree{
		"page.html": "<p>x</p>",
	})
	conv := &mockConverter{}
	conv.On("Convert", mock.Anything, `<line n="1"/><p>x</p>`).Return("", stderrors.New("boom"))
	p := newPipeline(t, env, conv, 1)

	_, err := runFile(t, env, p, "page.html")
	require.Error(t, err)
	assert.Equal(t, errors.ErrConversion, errors.GetErrorCode(err))
	conv.AssertExpectations(t)
	assert.False(t, filesystem.Exists(env.FS, env.Path("page.textile")))
}

func TestRun_EmptySource(t *testing.T) {
	env := testutil.NewTestEnvironment(t).WithFileTree(testutil.FileTree{
		"empty.html": "\n\n   \n",
	})
	conv := &mockConverter{}
	conv.On("Convert", mock.Anything, "").Return("", nil)
	p := newPipeline(t, env, conv, 1)

	got, err := runFile(t, env, p, "empty.html")
	require.NoError(t, err)
	assert.Equal(t, "", got)
	conv.AssertExpectations(t)
}

type closeFailing struct {
	bytes.Buffer
}

func (c *closeFailing) Close() error { return stderrors.New("flush failed") }

func TestRun_SinkCloseFailure(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	unit := pipeline.Unit{
		Name:     "stream",
		Location: env.Root,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(sample)), nil
		},
		Create: func() (io.WriteCloser, error) {
			return &closeFailing{}, nil
		},
	}

	err := newPipeline(t, env, passThrough, 1).Run(context.Background(), unit)
	require.Error(t, err)
	assert.Equal(t, errors.ErrIO, errors.GetErrorCode(err))
	assert.Contains(t, err.Error(), "closing output")
}

func TestRun_SinkCreateFailure(t *testing.T) {
	env := testutil.NewTestEnvironment(t).WithFileTree(testutil.FileTree{"page.html": sample})
	unit := pipeline.FileUnit(env.FS, env.Path("page.html"), "")
	unit.Create = func() (io.WriteCloser, error) { return nil, stderrors.New("read-only") }

	err := newPipeline(t, env, passThrough, 1).Run(context.Background(), unit)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrIO))
}

func TestRun_StreamUnit(t *testing.T) {
	env := testutil.NewTestEnvironment(t).WithFileTree(testutil.FileTree{
		".textilize-pre.rules": `REPLACE "&nbsp;" WITH " "`,
	})
	var out bytes.Buffer
	unit := pipeline.StreamUnit("-", env.Root, strings.NewReader("a&nbsp;b"), &out)

	require.NoError(t, newPipeline(t, env, passThrough, 1).Run(context.Background(), unit))
	assert.Equal(t, "a b", out.String())
}

func TestRun_WithTextileConverter(t *testing.T) {
	env := testutil.NewTestEnvironment(t).WithFileTree(testutil.FileTree{
		".textilize-post.rules": testutil.RuleFile(
			`REPLACE "&nbsp;" WITH " "`,
			`REPLACE "&rsquo;" WITH "'"`,
		),
		"guide.html": strings.Join([]string{
			"<h1>Guide</h1>",
			"",
			"<p>It&rsquo;s a short",
			"guide with <strong>bold</strong>&nbsp;text.</p>",
			"<ul>",
			"  <li>one</li>",
			"  <li>two</li>",
			"</ul>",
		}, "\n"),
	})

	pre, err := preprocess.New(preprocess.Options{})
	require.NoError(t, err)
	resolver := cascade.New(cascade.NewFSLookup(env.FS), cascade.Options{})
	p := pipeline.New(resolver, pre, textile.New(pre.Markers()), pipeline.Options{})

	got, err := runFile(t, env, p, "guide.html")
	require.NoError(t, err)
	assert.Equal(t, "h1. Guide\n\nIt's a short guide with *bold* text.\n\n* one\n* two\n", got)
}

func TestRun_CancelledContext(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.WriteFile("page.html", sample)
	p := newPipeline(t, env, passThrough, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in := env.Path("page.html")
	err := p.Run(ctx, pipeline.FileUnit(env.FS, in, filesystem.OutputPath(in, ".textile")))
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, context.Canceled))
	assert.False(t, filesystem.Exists(env.FS, env.Path("page.textile")))
}
