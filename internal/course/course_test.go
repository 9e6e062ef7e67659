package course

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EmbeddedCatalog(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	mods := c.Modules()
	require.Len(t, mods, 29)
	assert.Equal(t, "01-variables-and-types", mods[0].Slug)
	assert.Equal(t, "29-standard-library", mods[28].Slug)
	for i, m := range mods {
		assert.Equal(t, i+1, m.Number(), m.Slug)
		assert.NotEmpty(t, m.Lessons, m.Slug)
	}
}

func TestLoad_ReturnsSameCatalog(t *testing.T) {
	a, err := Load()
	require.NoError(t, err)
	b, err := Load()
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Same(t, a, MustLoad())
}

func TestCatalog_Module(t *testing.T) {
	c := MustLoad()

	m, err := c.Module("02-operators")
	require.NoError(t, err)
	assert.Equal(t, "运算符", m.Title)
	assert.Equal(t, "/guide/02-operators/", m.Route())
	assert.Equal(t, "/guide/02-operators/arithmetic-operators", m.LessonRoute(m.Lessons[0]))

	_, err = c.Module("99-nope")
	assert.ErrorIs(t, err, ErrModuleNotFound)
}

func TestCatalog_Neighbors(t *testing.T) {
	c := MustLoad()

	prev, next, err := c.Neighbors("02-operators")
	require.NoError(t, err)
	require.NotNil(t, prev)
	require.NotNil(t, next)
	assert.Equal(t, "01-variables-and-types", prev.Slug)
	assert.Equal(t, "03-input-output", next.Slug)

	prev, _, err = c.Neighbors("01-variables-and-types")
	require.NoError(t, err)
	assert.Nil(t, prev)

	_, next, err = c.Neighbors("29-standard-library")
	require.NoError(t, err)
	assert.Nil(t, next)

	_, _, err = c.Neighbors("missing")
	assert.ErrorIs(t, err, ErrModuleNotFound)
}

func TestModule_SidebarTitle(t *testing.T) {
	c := MustLoad()

	m, err := c.Module("01-variables-and-types")
	require.NoError(t, err)
	assert.Equal(t, "变量和数据类型", m.SidebarTitle())

	m, err = c.Module("02-operators")
	require.NoError(t, err)
	assert.Equal(t, "运算符", m.SidebarTitle())
}

func TestModule_Exercises(t *testing.T) {
	c := MustLoad()

	m, _ := c.Module("08-lists")
	l, ok := m.Exercises()
	assert.True(t, ok)
	assert.Equal(t, "exercises", l.Slug)

	m, _ = c.Module("18-exception-handling")
	_, ok = m.Exercises()
	assert.False(t, ok)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "gap in numbering",
			doc: `
sections:
  - title: s
    modules:
      - { slug: 01-a, title: A, lessons: [{ slug: x, title: X }] }
      - { slug: 03-c, title: C, lessons: [{ slug: x, title: X }] }
`,
		},
		{
			name: "duplicate slug",
			doc: `
sections:
  - title: s
    modules:
      - { slug: 01-a, title: A, lessons: [{ slug: x, title: X }] }
  - title: t
    modules:
      - { slug: 01-a, title: A, lessons: [{ slug: x, title: X }] }
`,
		},
		{
			name: "malformed slug",
			doc: `
sections:
  - title: s
    modules:
      - { slug: intro, title: A, lessons: [{ slug: x, title: X }] }
`,
		},
		{
			name: "no lessons",
			doc: `
sections:
  - title: s
    modules:
      - { slug: 01-a, title: A, lessons: [] }
`,
		},
		{
			name: "repeated lesson",
			doc: `
sections:
  - title: s
    modules:
      - { slug: 01-a, title: A, lessons: [{ slug: x, title: X }, { slug: x, title: Y }] }
`,
		},
		{
			name: "empty section",
			doc: `
sections:
  - title: s
    modules: []
`,
		},
		{
			name: "empty catalog",
			doc:  "sections: []\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.ErrorIs(t, err, ErrInvalidCatalog)
		})
	}
}

func TestParse_BadYAML(t *testing.T) {
	_, err := Parse([]byte("sections: [unclosed"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCatalog)
}
