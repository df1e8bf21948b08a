package importance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreIsAlwaysClamped(t *testing.T) {
	paths := []string{
		"src/index.js",
		"test/deeply/nested/fixture/path/file.py",
		"README.md",
		"package.json",
		"a/b/c/d/e/f/g/h/file.go",
	}
	for _, p := range paths {
		s := Score(p, "go")
		assert.GreaterOrEqual(t, s, 0.0, p)
		assert.LessOrEqual(t, s, 1.0, p)
	}
}

func TestScoreBoostsEntryPoints(t *testing.T) {
	entry := Score("src/index.js", "javascript")
	plain := Score("src/widget.js", "javascript")
	assert.Greater(t, entry, plain)
}

func TestScorePenalizesTestDirectories(t *testing.T) {
	test := Score("tests/unit/widget_test.go", "go")
	prod := Score("internal/widget.go", "go")
	assert.Less(t, test, prod)
}

func TestScorePenalizesMarkdown(t *testing.T) {
	md := Score("docs/guide.md", "markdown")
	code := Score("docs/guide.go", "go")
	assert.Less(t, md, code)
}

func TestCombinedScoreDefaultsMissingValuesToHalf(t *testing.T) {
	assert.InDelta(t, 0.5, CombinedScore(0, 0, false, false), 1e-9)
	assert.InDelta(t, 0.6*0.8+0.4*0.5, CombinedScore(0.8, 0, true, false), 1e-9)
	assert.InDelta(t, 0.6*0.5+0.4*0.9, CombinedScore(0, 0.9, false, true), 1e-9)
}
