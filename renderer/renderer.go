package renderer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ByLCY/interplot/chart"
)

// Format 是输出文件格式。
type Format string

const (
	FormatPNG Format = "png"
	FormatPDF Format = "pdf"
	FormatSVG Format = "svg"
)

// Renderer 将图表输出为最终文件内容，例如 PNG、PDF 或 SVG。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(fig *chart.Figure, format Format) ([]byte, error)
}

// 渲染失败所处的阶段。
const (
	OpInit   = "init"
	OpDraw   = "draw"
	OpEncode = "encode"
	OpWrite  = "write"
)

// RenderError 是渲染与写文件过程中唯一的错误类型。
type RenderError struct {
	Op   string // init, draw, encode, write
	Path string
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s %q: %v", e.Op, e.Path, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// NewRenderError creates a new RenderError.
func NewRenderError(op, path string, err error) *RenderError {
	return &RenderError{Op: op, Path: path, Err: err}
}

// FormatFromPath 根据扩展名推断输出格式，没有扩展名时按 PNG 处理。
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case "", ".png":
		return FormatPNG, nil
	case ".pdf":
		return FormatPDF, nil
	case ".svg":
		return FormatSVG, nil
	default:
		return "", fmt.Errorf("不支持的输出格式 %q", ext)
	}
}

// Save 校验图表、调用 r 渲染并原子地写入 path（为空时使用 fig.Output.Path）。
// 渲染在独立作用域中执行：后端 panic 会被转换为 RenderError；
// 任何失败路径都会删除临时文件，目标文件只会通过 rename 出现。
func Save(r Renderer, fig *chart.Figure, path string) error {
	if path == "" && fig != nil {
		path = fig.Output.Path
	}
	if path == "" {
		path = chart.DefaultOutput
	}
	if r == nil {
		return NewRenderError(OpInit, path, errors.New("renderer is nil"))
	}
	if err := fig.Validate(); err != nil {
		return NewRenderError(OpInit, path, err)
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return NewRenderError(OpInit, path, err)
	}

	data, err := render(r, fig, format)
	if err != nil {
		var re *RenderError
		if errors.As(err, &re) {
			if re.Path == "" {
				re.Path = path
			}
			return re
		}
		return NewRenderError(OpDraw, path, err)
	}
	if err := writeAtomic(path, data); err != nil {
		return NewRenderError(OpWrite, path, err)
	}
	return nil
}

func render(r Renderer, fig *chart.Figure, format Format) (data []byte, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			data = nil
			err = NewRenderError(OpDraw, "", fmt.Errorf("panic: %v", rec))
		}
	}()
	return r.Render(fig, format)
}

// writeAtomic 先写同目录下的临时文件，再 rename 到目标路径。
func writeAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	name := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(name)
		}
	}()
	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Chmod(0o644); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(name, path)
}
