// Package site builds the documentation site's configuration value.
//
// New is pure: the same Environment always yields a structurally identical
// SiteConfig. Default reads the environment flag once and delegates to New.
package site

import (
	"os"
	"strings"

	"github.com/Bitlatte/pyguide/internal/course"
	"github.com/Bitlatte/pyguide/internal/model"
)

// EnvVar selects the deployment environment. Only "production" changes the
// output; any other value, or none, is development.
const EnvVar = "PYGUIDE_ENV"

const (
	// ProductionBase is the sub-path the built site is served under.
	ProductionBase  = "/python-awesome-basic-coding/"
	DevelopmentBase = "/"

	// OutDir is where the generator writes the built site, relative to the
	// docs root.
	OutDir = "../dist"
)

// Sidebar keys and labels shared with the validator.
const (
	ExercisesPrefix = "/exercises/"
	QuickNavTitle   = "快速导航"
	GuideIndexText  = "返回教程目录"
	OverviewText    = "模块概述"
)

// Environment is the deployment target. It only decides the base path.
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
)

// ParseEnvironment maps a flag value to an Environment. Anything other than
// "production" (case-insensitive) is development.
func ParseEnvironment(s string) Environment {
	if strings.EqualFold(strings.TrimSpace(s), string(Production)) {
		return Production
	}
	return Development
}

// EnvironmentFromEnv reads EnvVar from the process environment.
func EnvironmentFromEnv() Environment {
	v, _ := os.LookupEnv(EnvVar)
	return ParseEnvironment(v)
}

func (e Environment) BasePath() string {
	if e == Production {
		return ProductionBase
	}
	return DevelopmentBase
}

// Default returns the site configuration for the current process
// environment.
func Default() *model.SiteConfig {
	return New(EnvironmentFromEnv())
}

// New returns the site configuration for env.
func New(env Environment) *model.SiteConfig {
	cat := course.MustLoad()

	return &model.SiteConfig{
		Title:           "Python基础编程学习",
		Description:     "Python基础编程完整学习教程",
		BasePath:        env.BasePath(),
		OutDir:          OutDir,
		IgnoreDeadLinks: true,
		CleanURLs:       true,
		ThemeConfig: model.ThemeConfig{
			Logo: "/logo.svg",
			Nav: []model.NavItem{
				{Text: "首页", Link: "/"},
				{Text: "教程", Link: course.GuidePrefix},
				{Text: "练习", Link: ExercisesPrefix},
				{Text: "项目", Link: "/projects/"},
			},
			Sidebar: buildSidebar(cat),
			SocialLinks: []model.SocialLink{
				{Icon: "github", Link: "https://github.com/your-repo/python-awesome-basic-coding"},
			},
			Footer: model.Footer{
				Message:   "Released under the MIT License.",
				Copyright: "Copyright © 2024 Python Learning Team",
			},
			Search: model.Search{Provider: "local"},
		},
		Markdown: model.MarkdownConfig{
			LineNumbers: true,
		},
	}
}
