package site

import (
	"github.com/Bitlatte/pyguide/internal/course"
	"github.com/Bitlatte/pyguide/internal/model"
)

func buildSidebar(cat *course.Catalog) model.Sidebar {
	var sb model.Sidebar

	sb.Set(course.GuidePrefix, guideIndex(cat))
	for _, m := range cat.Modules() {
		prev, next, _ := cat.Neighbors(m.Slug)
		sb.Set(m.Route(), []model.SidebarItem{
			moduleGroup(m),
			QuickNav(prev, next),
		})
	}
	sb.Set(ExercisesPrefix, exercisesIndex(cat))

	return sb
}

// guideIndex lists every module, one group per section.
func guideIndex(cat *course.Catalog) []model.SidebarItem {
	groups := make([]model.SidebarItem, 0, len(cat.Sections))
	for _, sec := range cat.Sections {
		items := make([]model.SidebarItem, 0, len(sec.Modules))
		for i := range sec.Modules {
			m := &sec.Modules[i]
			items = append(items, model.Link(m.Title, m.Route()))
		}
		groups = append(groups, model.Group(sec.Title, items...))
	}
	return groups
}

func moduleGroup(m *course.Module) model.SidebarItem {
	items := make([]model.SidebarItem, 0, len(m.Lessons)+1)
	items = append(items, model.Link(OverviewText, m.Route()))
	for _, l := range m.Lessons {
		items = append(items, model.Link(l.Title, m.LessonRoute(l)))
	}
	return model.Group(m.SidebarTitle(), items...)
}

// QuickNav links the previous module, the guide index and the next module.
// A missing neighbour becomes a disabled link back to the guide index.
func QuickNav(prev, next *course.Module) model.SidebarItem {
	prevItem := model.DisabledLink("← 已是第一个模块", course.GuidePrefix)
	if prev != nil {
		prevItem = model.Link("← 上一模块："+prev.Title, prev.Route())
	}
	nextItem := model.DisabledLink("已是最后一个模块 →", course.GuidePrefix)
	if next != nil {
		nextItem = model.Link("下一模块："+next.Title+" →", next.Route())
	}
	return model.Group(QuickNavTitle,
		prevItem,
		model.Link(GuideIndexText, course.GuidePrefix),
		nextItem,
	)
}

// exercisesIndex links the exercise page of every module that has one.
func exercisesIndex(cat *course.Catalog) []model.SidebarItem {
	var groups []model.SidebarItem
	for _, sec := range cat.Sections {
		var items []model.SidebarItem
		for i := range sec.Modules {
			m := &sec.Modules[i]
			if l, ok := m.Exercises(); ok {
				items = append(items, model.Link(m.Title, m.LessonRoute(l)))
			}
		}
		if len(items) > 0 {
			groups = append(groups, model.Group(sec.Title, items...))
		}
	}
	return groups
}
