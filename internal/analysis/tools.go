package analysis

import "strings"

// DefaultDenylist 内置的逆向/调试工具名单
var DefaultDenylist = []string{
	"Binary Ninja", "Hopper", "ida64", "ida32", "Ghidra",
	"lldb", "gdb", "radare2", "strace", "dtrace",
}

// MatchDenylist 在进程列表中做子串匹配，返回第一个命中的名称。
// 没有模糊匹配，也不看进程树。
func MatchDenylist(listing string, denylist []string) (string, bool) {
	if listing == "" {
		return "", false
	}
	for _, name := range denylist {
		if name == "" {
			continue
		}
		if strings.Contains(listing, name) {
			return name, true
		}
	}
	return "", false
}

// MergeDenylist 合并多个名单并去重，保持首次出现的顺序
func MergeDenylist(lists ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, list := range lists {
		for _, name := range list {
			name = strings.TrimSpace(name)
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}
