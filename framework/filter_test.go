package framework

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testID(path ...string) TestID {
	return TestID{Path: path}
}

func TestEmptyFiltersAcceptEverything(t *testing.T) {
	var f RegexFilters
	assert.True(t, f.AsFilter(testID("a", "b")))
}

func TestMustMatchSingleElementAppliesToTopLevel(t *testing.T) {
	var f RegexFilters
	require.NoError(t, f.MustMatch.Set("default"))

	assert.True(t, f.AsFilter(testID("default")))
	assert.True(t, f.AsFilter(testID("default", "GET", "list all posts")))
	assert.False(t, f.AsFilter(testID("second pass", "GET")))
}

func TestMustMatchElementsApplyPerLevel(t *testing.T) {
	var f RegexFilters
	require.NoError(t, f.MustMatch.Set("/GET/invalid"))

	assert.True(t, f.AsFilter(testID("any set")), "empty element matches anything")
	assert.True(t, f.AsFilter(testID("any set", "GET")))
	assert.True(t, f.AsFilter(testID("any set", "GET", "get post with invalid id")))
	assert.False(t, f.AsFilter(testID("any set", "GET", "list all posts")))
	assert.False(t, f.AsFilter(testID("any set", "POST")))
}

func TestMustMatchElementsAreUnanchored(t *testing.T) {
	var loose, anchored RegexFilters
	require.NoError(t, loose.MustMatch.Set("/GET/list"))
	require.NoError(t, anchored.MustMatch.Set("/GET/^list"))

	emptyList := testID("default", "GET", "filter posts by invalid userId returns empty list")
	assert.True(t, loose.AsFilter(emptyList))
	assert.False(t, anchored.AsFilter(emptyList))
	assert.True(t, anchored.AsFilter(testID("default", "GET", "list all posts")))
}

func TestMustMatchExactIDSelectsAncestors(t *testing.T) {
	var f RegexFilters
	require.NoError(t, f.MustMatch.Set("^set$/^GET$/^list all posts$"))

	assert.True(t, f.AsFilter(testID("set")))
	assert.True(t, f.AsFilter(testID("set", "GET")))
	assert.True(t, f.AsFilter(testID("set", "GET", "list all posts")))
	assert.False(t, f.AsFilter(testID("set", "POST")))
	assert.False(t, f.AsFilter(testID("other")))
}

func TestMustMatchAnyOfSeveralPatterns(t *testing.T) {
	var f RegexFilters
	require.NoError(t, f.MustMatch.Set("/GET"))
	require.NoError(t, f.MustMatch.Set("/PUT"))

	assert.True(t, f.AsFilter(testID("set", "GET")))
	assert.True(t, f.AsFilter(testID("set", "PUT")))
	assert.False(t, f.AsFilter(testID("set", "DELETE")))
}

func TestSlashesInsideBracketsDoNotSplit(t *testing.T) {
	assert.Equal(t, []string{"a[/]b", "c"}, splitRegexp("a[/]b/c"))
	assert.Equal(t, []string{"(x/y)"}, splitRegexp("(x/y)"))
	assert.Equal(t, []string{`a\/b`}, splitRegexp(`a\/b`))
}

func TestMustNotMatch(t *testing.T) {
	var f RegexFilters
	require.NoError(t, f.MustNotMatch.Set("DELETE"))

	assert.True(t, f.AsFilter(testID("set", "GET")))
	assert.False(t, f.AsFilter(testID("set", "DELETE")))
}

func TestRegexListRejectsInvalidPattern(t *testing.T) {
	var r RegexList
	assert.Error(t, r.Set("(unclosed"))
	assert.False(t, r.IsDefined())
}

func TestRegexListString(t *testing.T) {
	var r RegexList
	require.NoError(t, r.Set("a"))
	require.NoError(t, r.Set("b"))
	assert.Equal(t, `"a" or "b"`, r.String())
	assert.Equal(t, "regex", r.Type())
}

func TestPrintFilterDescription(t *testing.T) {
	var buf bytes.Buffer
	PrintFilterDescription(&buf, RegexFilters{})
	assert.Empty(t, buf.String())

	var f RegexFilters
	require.NoError(t, f.MustMatch.Set("GET"))
	require.NoError(t, f.MustNotMatch.Set("invalid"))
	PrintFilterDescription(&buf, f)
	assert.Equal(t, "Some tests will be skipped based on the filter criteria for this test run:\n"+
		"  skip any not matching \"GET\"\n"+
		"  skip any matching \"invalid\"\n\n", buf.String())
}
