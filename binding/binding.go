// Package binding 把描述文件中的 ${path|default} 占位符替换为 --data 传入的 JSON 值。
package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var placeholder = regexp.MustCompile(`\$\{([^}]*)\}`)

// Interpolate 替换 text 中的全部占位符。
// 路径不存在（或 data 为空）时使用 | 之后的默认值；没有默认值时原样保留占位符。
func Interpolate(text string, data any) string {
	if !strings.Contains(text, "${") {
		return text
	}
	return placeholder.ReplaceAllStringFunc(text, func(match string) string {
		inner := match[2 : len(match)-1]
		path, fallback, hasFallback := strings.Cut(inner, "|")
		if val, ok := Lookup(data, strings.TrimSpace(path)); ok {
			return format(val)
		}
		if hasFallback {
			return fallback
		}
		return match
	})
}

// step 是路径中的一步：对象键或数组下标。
type step struct {
	key   string
	index int
	isIdx bool
}

// Lookup 按 a.b[0].c 形式的路径在 JSON 解码结果中取值。
func Lookup(data any, path string) (any, bool) {
	if data == nil || path == "" {
		return nil, false
	}
	steps, ok := parsePath(path)
	if !ok {
		return nil, false
	}
	current := data
	for _, st := range steps {
		switch c := current.(type) {
		case map[string]any:
			if st.isIdx {
				return nil, false
			}
			if current, ok = c[st.key]; !ok {
				return nil, false
			}
		case []any:
			if !st.isIdx || st.index < 0 || st.index >= len(c) {
				return nil, false
			}
			current = c[st.index]
		default:
			return nil, false
		}
	}
	return current, true
}

// parsePath 把 cells.low[1] 拆成 cells、low、[1] 三步。
func parsePath(path string) ([]step, bool) {
	var steps []step
	for _, segment := range strings.Split(path, ".") {
		key, rest, _ := strings.Cut(segment, "[")
		if key != "" {
			steps = append(steps, step{key: key})
		}
		if rest == "" {
			continue
		}
		for _, part := range strings.Split("["+rest, "[")[1:] {
			num, tail, closed := strings.Cut(part, "]")
			if !closed || tail != "" {
				return nil, false
			}
			idx, err := strconv.Atoi(num)
			if err != nil {
				return nil, false
			}
			steps = append(steps, step{index: idx, isIdx: true})
		}
	}
	return steps, len(steps) > 0
}

// format 让 JSON 数字保持作者习惯的写法（2.6 而不是 2.6e+00）。
func format(val any) string {
	switch v := val.(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
