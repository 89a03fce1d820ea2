package fonts

import (
	"fmt"
	"strings"

	"codeberg.org/go-fonts/latin-modern/lmroman10regular"
	"codeberg.org/go-fonts/liberation/liberationserifregular"
	"golang.org/x/image/font/opentype"
)

// Face 是解析得到的字体：名称、来源与原始字节。
type Face struct {
	Family string
	Source string // "embed:<name>" 或系统字体文件路径
	Data   []byte
	Font   *opentype.Font
}

// GenericSerif 是通用衬线字体族的名称，总能解析到内置字体。
const GenericSerif = "serif"

type embeddedFont struct {
	family string
	data   []byte
}

// 内置字体：Liberation Serif 与 Times New Roman 度量兼容；Latin Modern Roman 作为通用 serif。
var embedded = map[string]embeddedFont{
	"liberationserif":  {family: "Liberation Serif", data: liberationserifregular.TTF},
	"latinmodernroman": {family: "Latin Modern Roman", data: lmroman10regular.TTF},
	GenericSerif:       {family: "Latin Modern Roman", data: lmroman10regular.TTF},
}

// Load 返回内置字体的字节数据，name 可写为 "embed:Liberation Serif" 或直接 "Liberation Serif"。
func Load(name string) ([]byte, error) {
	name = strings.TrimPrefix(name, "embed:")
	ef, ok := embedded[normalize(name)]
	if !ok {
		return nil, fmt.Errorf("找不到内置字体 %s", name)
	}
	return ef.data, nil
}

func embeddedFace(name string) (Face, bool, error) {
	ef, ok := embedded[normalize(name)]
	if !ok {
		return Face{}, false, nil
	}
	f, err := opentype.Parse(ef.data)
	if err != nil {
		return Face{}, true, fmt.Errorf("解析内置字体 %s 失败: %w", ef.family, err)
	}
	return Face{Family: ef.family, Source: "embed:" + ef.family, Data: ef.data, Font: f}, true, nil
}

// normalize 去掉空白、连字符与下划线并转为小写，"Times New Roman" → "timesnewroman"。
func normalize(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch r {
		case ' ', '\t', '-', '_':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
