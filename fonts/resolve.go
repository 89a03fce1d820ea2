package fonts

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/image/font/opentype"
)

// Options 控制字体解析。System 为 false 时只使用内置字体，结果与宿主机无关。
type Options struct {
	System     bool
	SearchDirs []string // 为空时使用当前平台的默认字体目录
}

// 常见字体的文件名别名（去掉扩展名并 normalize 后）。
var fileAliases = map[string][]string{
	"timesnewroman":   {"timesnewroman", "times", "timesnewromanpsmt"},
	"dejavuserif":     {"dejavuserif"},
	"liberationserif": {"liberationserifregular", "liberationserif"},
}

// Resolve 按顺序尝试 candidates 中的字体族，返回第一个可用的字体。
// 开启 System 时先在宿主机字体目录中查找同名字体，再查内置字体；
// 全部落空时回退到内置的通用衬线字体，因此不会因为缺少系统字体而失败。
func Resolve(candidates []string, opts Options) (Face, error) {
	var index map[string]string
	if opts.System {
		index = systemIndex(opts.SearchDirs)
	}
	for _, name := range candidates {
		if name == "" {
			continue
		}
		if path, ok := lookupFile(index, name); ok {
			if face, err := loadFile(name, path); err == nil {
				return face, nil
			}
		}
		face, ok, err := embeddedFace(name)
		if err != nil {
			return Face{}, err
		}
		if ok {
			return face, nil
		}
	}
	face, _, err := embeddedFace(GenericSerif)
	return face, err
}

func lookupFile(index map[string]string, family string) (string, bool) {
	if len(index) == 0 {
		return "", false
	}
	key := normalize(family)
	names := fileAliases[key]
	if len(names) == 0 {
		names = []string{key, key + "regular"}
	}
	for _, n := range names {
		if path, ok := index[n]; ok {
			return path, true
		}
	}
	return "", false
}

func loadFile(family, path string) (Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Face{}, err
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return Face{}, fmt.Errorf("解析字体 %s 失败: %w", path, err)
	}
	return Face{Family: family, Source: path, Data: data, Font: f}, nil
}

var (
	indexMu    sync.Mutex
	indexCache = map[string]map[string]string{}
)

// systemIndex 扫描字体目录，建立 "normalize 后的文件名 → 路径" 索引；结果按目录列表缓存。
func systemIndex(dirs []string) map[string]string {
	if len(dirs) == 0 {
		dirs = DefaultDirs()
	}
	key := strings.Join(dirs, string(os.PathListSeparator))
	indexMu.Lock()
	defer indexMu.Unlock()
	if idx, ok := indexCache[key]; ok {
		return idx
	}
	idx := map[string]string{}
	for _, dir := range dirs {
		_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(path))
			if ext != ".ttf" && ext != ".otf" {
				return nil
			}
			name := normalize(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
			if _, seen := idx[name]; !seen {
				idx[name] = path
			}
			return nil
		})
	}
	indexCache[key] = idx
	return idx
}

// DefaultDirs 返回当前平台常见的字体目录。
func DefaultDirs() []string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "windows":
		dirs := []string{filepath.Join(os.Getenv("WINDIR"), "Fonts")}
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			dirs = append(dirs, filepath.Join(local, "Microsoft", "Windows", "Fonts"))
		}
		return dirs
	case "darwin":
		return []string{"/System/Library/Fonts", "/Library/Fonts", filepath.Join(home, "Library", "Fonts")}
	default:
		return []string{
			"/usr/share/fonts",
			"/usr/local/share/fonts",
			filepath.Join(home, ".local", "share", "fonts"),
			filepath.Join(home, ".fonts"),
		}
	}
}
