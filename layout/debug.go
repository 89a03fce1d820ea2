package layout

import (
	"encoding/json"
	"errors"
	"os"
)

// debugDump 是调试 JSON 的顶层结构：坐标约定加上完整场景与内容包围盒。
type debugDump struct {
	Units   string `json:"units"`
	Origin  string `json:"origin"`
	Content Bounds `json:"content"`
	*Scene
}

// WriteDebugJSON 将场景输出为带缩进的 JSON，供 --debug 排查布局。
func WriteDebugJSON(scene *Scene, path string) error {
	if scene == nil {
		return errors.New("layout: scene is nil")
	}
	data, err := json.MarshalIndent(debugDump{
		Units:   "mm",
		Origin:  "top-left",
		Content: scene.ContentBounds(),
		Scene:   scene,
	}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
