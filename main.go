package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ByLCY/interplot/chart"
	"github.com/ByLCY/interplot/dsl"
	"github.com/ByLCY/interplot/layout"
	"github.com/ByLCY/interplot/renderer"
	canvasrenderer "github.com/ByLCY/interplot/renderer/canvas"
	plotrenderer "github.com/ByLCY/interplot/renderer/plot"
)

// options 汇总命令行参数。
type options struct {
	input       string
	output      string
	data        string
	backend     string
	debug       string
	systemFonts bool
	verbose     bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		opts   options
		logger = zap.NewNop()
	)
	cmd := &cobra.Command{
		Use:   "interplot",
		Short: "Render the AI Use × Task Ambiguity interaction chart",
		Long: `interplot draws an APA-style moderation chart: one line per moderator
level (±1 SD), fixed axis limits, serif text and a framed legend.

Without --in the built-in Figure 2 is rendered to figure_2.png.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config := zap.NewProductionConfig()
			if opts.verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			logger, err = config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// 失败时 cobra 不会调用 PersistentPostRun，这里用 defer 保证落盘。
			defer func() { _ = logger.Sync() }()
			path, err := run(opts, logger)
			if err != nil {
				logger.Debug("render failed", zap.Error(err))
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Chart saved as '%s'\n", path)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.input, "in", "", "图表描述文件（.figure），为空时使用内置 Figure 2")
	flags.StringVar(&opts.output, "out", "", "输出路径，扩展名决定格式（.png/.pdf/.svg）")
	flags.StringVar(&opts.data, "data", "", "绑定到描述文件的 JSON 数据")
	flags.StringVar(&opts.backend, "backend", "canvas", "渲染后端：canvas 或 plot")
	flags.StringVar(&opts.debug, "debug", "", "布局调试 JSON 输出路径（仅 canvas 后端）")
	flags.BoolVar(&opts.systemFonts, "system-fonts", true, "允许使用宿主机安装的字体")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "输出调试日志")
	return cmd
}

// run 串联读取、渲染与写文件，返回实际写入的路径。
func run(opts options, logger *zap.Logger) (string, error) {
	var data any
	if opts.data != "" {
		if err := json.Unmarshal([]byte(opts.data), &data); err != nil {
			return "", fmt.Errorf("解析 data JSON 失败: %w", err)
		}
	}

	fig, err := loadFigure(opts.input, data)
	if err != nil {
		return "", err
	}
	path := opts.output
	if path == "" {
		path = fig.Output.Path
	}
	if path == "" {
		path = chart.DefaultOutput
	}

	var r renderer.Renderer
	switch opts.backend {
	case "canvas", "":
		cr := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{SystemFonts: opts.systemFonts})
		if src, err := cr.FontSource(fig.Font); err == nil {
			logger.Debug("font resolved", zap.Strings("candidates", fig.Font.Candidates()), zap.String("source", src))
		}
		if opts.debug != "" {
			if err := writeDebug(cr, fig, opts.debug); err != nil {
				return "", err
			}
			logger.Debug("layout written", zap.String("path", opts.debug))
		}
		r = cr
	case "plot":
		if opts.debug != "" {
			return "", fmt.Errorf("--debug 仅支持 canvas 后端")
		}
		r = plotrenderer.NewRenderer(opts.systemFonts)
	default:
		return "", fmt.Errorf("未知的渲染后端 %q", opts.backend)
	}

	logger.Info("rendering chart",
		zap.String("figure", fig.Name),
		zap.String("backend", opts.backend),
		zap.Int("series", len(fig.Series)),
		zap.String("output", path),
	)
	if err := renderer.Save(r, fig, path); err != nil {
		return "", err
	}
	return path, nil
}

func loadFigure(input string, data any) (*chart.Figure, error) {
	if input == "" {
		return chart.Figure2(), nil
	}
	doc, err := dsl.ParseFile(input)
	if err != nil {
		return nil, fmt.Errorf("解析描述文件失败: %w", err)
	}
	fig, err := chart.FromDocument(doc, data)
	if err != nil {
		return nil, fmt.Errorf("构建图表失败: %w", err)
	}
	return fig, nil
}

func writeDebug(cr *canvasrenderer.Renderer, fig *chart.Figure, debugPath string) error {
	scene, err := cr.Layout(fig, layout.DebugOptions{RawUnits: true})
	if err != nil {
		return fmt.Errorf("布局计算失败: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(scene, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
