package topics

import (
	"bytes"
	"testing"
	"testing/fstest"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"rules.md":          {Data: []byte("# Rules\n\nOne rule per line.")},
		"option-root.txt":   {Data: []byte("The --root flag sets the configuration root.")},
		"nested/cascade.md": {Data: []byte("# Cascade")},
		"notes.json":        {Data: []byte("{}")},
		"config.txxt":       {Data: []byte("Configuration")},
	}
}

func TestScan(t *testing.T) {
	t.Run("default extensions", func(t *testing.T) {
		tm := New(testFS())
		require.NoError(t, tm.Scan())

		tests := []struct {
			name    string
			exists  bool
			content string
		}{
			{"rules", true, "# Rules\n\nOne rule per line."},
			{"cascade", true, "# Cascade"},
			{"option-root", true, "The --root flag sets the configuration root."},
			{"notes", false, ""},
			{"config", false, ""},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				topic, ok := tm.GetTopic(tt.name)
				assert.Equal(t, tt.exists, ok)
				if ok {
					assert.Equal(t, tt.content, topic.Content)
				}
			})
		}
	})

	t.Run("custom extensions", func(t *testing.T) {
		tm := NewWithOptions(testFS(), Options{Extensions: []string{".txxt"}})
		require.NoError(t, tm.Scan())
		assert.Equal(t, []string{"config"}, tm.ListTopics())
	})
}

func TestGetTopicFlagStyle(t *testing.T) {
	tm := New(testFS())
	require.NoError(t, tm.Scan())

	for _, name := range []string{"--root", "-root", "root", "option-root"} {
		topic, ok := tm.GetTopic(name)
		require.True(t, ok, name)
		assert.Equal(t, "option-root", topic.Name)
	}
}

func TestBuiltin(t *testing.T) {
	tm := New(Builtin())
	require.NoError(t, tm.Scan())
	assert.Equal(t, []string{"cascade", "pipeline", "rules"}, tm.ListTopics())
}

func TestPlainRenderer(t *testing.T) {
	r := &PlainRenderer{}
	assert.Equal(t, "# Title", r.Render("# Title", ".md"))
}

func TestGlamourRendererSkipsText(t *testing.T) {
	r := NewGlamourRenderer()
	assert.Equal(t, "plain text", r.Render("plain text", ".txt"))
}

func TestGlamourRendererMarkdown(t *testing.T) {
	r := &GlamourRenderer{Style: "notty", Width: 60}
	out := r.Render("# Cascade\n\nRules flow down.", ".md")
	assert.Contains(t, out, "Cascade")
	assert.Contains(t, out, "Rules flow down.")
}

func newRoot(t *testing.T) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	root := &cobra.Command{Use: "textilize", Short: "convert markup", Run: func(*cobra.Command, []string) {}}
	root.AddCommand(&cobra.Command{Use: "check", Short: "check rule files", Run: func(*cobra.Command, []string) {}})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	require.NoError(t, Initialize(root, testFS()))
	return root, &out
}

func TestHelpCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		contains []string
	}{
		{"topic list", []string{"help", "topics"}, []string{"General topics:", "  cascade", "Option topics:", "  --root", "textilize help <topic>"}},
		{"topic", []string{"help", "cascade"}, []string{"# Cascade"}},
		{"flag topic", []string{"help", "root"}, []string{"configuration root"}},
		{"command help", []string{"help", "check"}, []string{"check rule files"}},
		{"root help", []string{"help"}, []string{"convert markup"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, out := newRoot(t)
			root.SetArgs(tt.args)
			require.NoError(t, root.Execute())
			for _, want := range tt.contains {
				assert.Contains(t, out.String(), want)
			}
		})
	}
}
