package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func testSidebar() Sidebar {
	var sb Sidebar
	sb.Set("/guide/", []SidebarItem{
		Group("基础语法",
			Link("变量和类型", "/guide/01-variables-and-types/"),
			Link("运算符", "/guide/02-operators/"),
		),
	})
	sb.Set("/guide/02-operators/", []SidebarItem{
		Link("模块概述", "/guide/02-operators/"),
		Group("快速导航",
			DisabledLink("← 已是第一个模块", "/guide/"),
		),
	})
	sb.Set("/exercises/", []SidebarItem{Group("空")})
	return sb
}

func TestSidebar_SetKeepsFirstPosition(t *testing.T) {
	var sb Sidebar
	sb.Set("/b/", nil)
	sb.Set("/a/", nil)
	sb.Set("/b/", []SidebarItem{Link("x", "/b/x")})

	assert.Equal(t, []string{"/b/", "/a/"}, sb.Keys())
	items, ok := sb.Get("/b/")
	require.True(t, ok)
	assert.Len(t, items, 1)
	assert.Equal(t, 2, sb.Len())
}

func TestSidebar_KeysReturnsCopy(t *testing.T) {
	sb := testSidebar()
	keys := sb.Keys()
	keys[0] = "/mutated/"
	assert.Equal(t, "/guide/", sb.Keys()[0])
}

func TestSidebar_JSONPreservesKeyOrder(t *testing.T) {
	sb := testSidebar()

	data, err := json.Marshal(sb)
	require.NoError(t, err)

	guide := indexOf(t, string(data), `"/guide/"`)
	ops := indexOf(t, string(data), `"/guide/02-operators/"`)
	ex := indexOf(t, string(data), `"/exercises/"`)
	assert.Less(t, guide, ops)
	assert.Less(t, ops, ex)

	var decoded Sidebar
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, sb.Keys(), decoded.Keys())

	items, _ := decoded.Get("/guide/02-operators/")
	require.Len(t, items, 2)
	assert.Equal(t, KindLink, items[0].Kind)
	assert.Equal(t, KindGroup, items[1].Kind)
	assert.True(t, items[1].Items[0].Disabled())
}

func TestSidebarItem_JSONShape(t *testing.T) {
	data, err := json.Marshal(DisabledLink("下一模块", "/guide/"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"下一模块","link":"/guide/","class":"disabled"}`, string(data))

	data, err = json.Marshal(Group("空"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"空","items":[]}`, string(data))
}

func TestSidebarItem_UnmarshalEmptyGroup(t *testing.T) {
	var it SidebarItem
	require.NoError(t, json.Unmarshal([]byte(`{"text":"g","items":[]}`), &it))
	assert.True(t, it.IsGroup())
	assert.Empty(t, it.Items)
}

func TestSidebarItem_UnmarshalRejectsBareText(t *testing.T) {
	var it SidebarItem
	err := json.Unmarshal([]byte(`{"text":"orphan"}`), &it)
	assert.ErrorIs(t, err, ErrInvalidSidebarItem)

	err = yaml.Unmarshal([]byte("text: orphan\n"), &it)
	assert.ErrorIs(t, err, ErrInvalidSidebarItem)
}

func TestSidebar_YAMLPreservesKeyOrder(t *testing.T) {
	sb := testSidebar()

	data, err := yaml.Marshal(sb)
	require.NoError(t, err)
	assert.Less(t, indexOf(t, string(data), "/guide/:"), indexOf(t, string(data), "/exercises/:"))

	var decoded Sidebar
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, sb.Keys(), decoded.Keys())

	items, _ := decoded.Get("/guide/")
	require.Len(t, items, 1)
	assert.Equal(t, "基础语法", items[0].Text)
	assert.Len(t, items[0].Items, 2)
}

func TestSidebar_YAMLRejectsSequence(t *testing.T) {
	var sb Sidebar
	err := yaml.Unmarshal([]byte("- a\n- b\n"), &sb)
	assert.Error(t, err)
}

func TestSidebarItem_Links(t *testing.T) {
	g := Group("outer",
		Link("a", "/a"),
		Group("inner", Link("b", "/b"), Link("c", "/c")),
	)
	links := g.Links()
	require.Len(t, links, 3)
	assert.Equal(t, "/a", links[0].Link)
	assert.Equal(t, "/c", links[2].Link)

	leaf := Link("x", "/x")
	assert.Equal(t, []SidebarItem{leaf}, leaf.Links())
}

func TestItemKind_String(t *testing.T) {
	assert.Equal(t, "group", KindGroup.String())
	assert.Equal(t, "link", KindLink.String())
}

func indexOf(t *testing.T, s, sub string) int {
	t.Helper()
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	t.Fatalf("%q not found in %s", sub, s)
	return -1
}
