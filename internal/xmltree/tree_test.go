package xmltree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `<?xml version="1.0" encoding="UTF-8"?>
<HouseFile xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" uiUnits="Metric">
  <House>
    <Components>
      <Wall id="1"><Label> Main </Label></Wall>
      <Wall id="2"><Label>Upper</Label></Wall>
      <Ceiling id="3"/>
    </Components>
  </House>
</HouseFile>`

func TestParse(t *testing.T) {
	root, err := Parse(strings.NewReader(sampleDoc))
	require.NoError(t, err)

	assert.Equal(t, "HouseFile", root.Name)
	assert.Equal(t, "", root.Path)
	assert.Equal(t, map[string]string{"uiUnits": "Metric"}, root.Attrs)

	walls := root.FindAll("House/Components/Wall")
	require.Len(t, walls, 2)
	assert.Equal(t, "House/Components/Wall", walls[0].Path)
	assert.Equal(t, "Main", walls[0].Child("Label").Text)

	id, ok := walls[1].Attr("id")
	assert.True(t, ok)
	assert.Equal(t, "2", id)

	_, ok = walls[1].Attr("missing")
	assert.False(t, ok)
}

func TestFind(t *testing.T) {
	root, err := Parse(strings.NewReader(sampleDoc))
	require.NoError(t, err)

	assert.Same(t, root, root.Find(""))
	assert.NotNil(t, root.Find("House/Components/Ceiling"))
	assert.Nil(t, root.Find("House/Components/Basement"))
	assert.Nil(t, root.Find("House/Nope/Wall"))
	assert.Empty(t, root.FindAll("House/Nope/Wall"))
	assert.True(t, root.Has("House/Components"))
	assert.Equal(t, 2, root.Count("Wall"))
	assert.Equal(t, "House/Components/Wall/Label", root.Find("House/Components/Wall").SubPath("Label"))
}

func TestNilNodeNavigation(t *testing.T) {
	var n *Node
	assert.Nil(t, n.Child("x"))
	assert.Nil(t, n.ChildrenNamed("x"))
	_, ok := n.Attr("x")
	assert.False(t, ok)
	assert.Equal(t, 0, n.Count("x"))
}

func TestParseErrors(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	require.Error(t, err)

	_, err = Parse(strings.NewReader("<a><b></a>"))
	require.Error(t, err)

	_, err = ParseFile("does-not-exist.xml")
	require.Error(t, err)
}

func TestParseIndentedDeepDocument(t *testing.T) {
	// Enough open elements, each holding whitespace text, to force the
	// text buffer stack to grow several times.
	doc := "<a>\n  <b/>\n</a>"
	root, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 1, root.Count("b"))
	assert.Equal(t, "", root.Text)

	var open, close strings.Builder
	for i := 0; i < 40; i++ {
		open.WriteString("\n  <n>text ")
		close.WriteString("</n>\n")
	}
	root, err = Parse(strings.NewReader("<root>" + open.String() + "<leaf>x</leaf>" + close.String() + "</root>"))
	require.NoError(t, err)
	assert.Equal(t, 40, root.Count("n"))
	assert.Equal(t, "text", root.Child("n").Text)
}
