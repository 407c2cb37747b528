package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/clumzy/StationR-ImageGen/dsl"
	"github.com/clumzy/StationR-ImageGen/layout"
	"github.com/clumzy/StationR-ImageGen/renderer"
	canvasrenderer "github.com/clumzy/StationR-ImageGen/renderer/canvas"
)

func main() {
	input := flag.String("in", "examples/atrium.scene", "卡片文件路径")
	output := flag.String("out", "output/card.png", "PNG 输出路径")
	debug := flag.String("debug", "", "布局调试 JSON 输出路径")
	dataJSON := flag.String("data", "", "绑定到卡片的 JSON 数据")
	pack := flag.String("pack", string(layout.PolicyFixed), "药丸打包策略：fixed 或 flow")
	seed := flag.Int64("seed", 1, "flow 策略乱序用的确定性种子")
	assets := flag.String("assets", "", "资产根目录；默认取卡片文件所在目录")
	flag.Parse()

	var inputData any
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &inputData); err != nil {
			log.Fatalf("解析 data JSON 失败: %v", err)
		}
	}

	cfg := layout.DefaultConfig()
	cfg.Policy = layout.PackPolicy(*pack)
	cfg.Seed = *seed

	baseDir := *assets
	if baseDir == "" {
		baseDir = filepath.Dir(*input)
	}
	var r renderer.Renderer = canvasrenderer.NewRenderer(baseDir)
	if err := run(*input, *output, *debug, inputData, cfg, r); err != nil {
		log.Fatalf("生成卡片失败: %v", err)
	}
	fmt.Printf("已生成卡片：%s\n", *output)
}

// run 串联解析、插值、布局与渲染。
func run(inputPath, outputPath, debugPath string, data any, cfg layout.Config, r renderer.Renderer) error {
	if r == nil {
		return fmt.Errorf("renderer 不能为空")
	}
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("无法打开卡片文件 %s: %w", inputPath, err)
	}
	defer file.Close()

	card, err := dsl.Parse(file)
	if err != nil {
		return fmt.Errorf("解析卡片失败: %w", err)
	}

	faces, ok := r.(layout.FaceSource)
	if !ok {
		return fmt.Errorf("renderer 未实现字体度量接口")
	}

	result, err := layout.Build(card, data, layout.BuildOptions{
		Faces:  faces,
		Config: cfg,
	})
	if err != nil {
		return fmt.Errorf("布局计算失败: %w", err)
	}

	if debugPath != "" {
		if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
			return fmt.Errorf("创建调试目录失败: %w", err)
		}
		if err := layout.WriteDebugJSON(result, debugPath); err != nil {
			return fmt.Errorf("输出调试 JSON 失败: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}

	pngBytes, err := r.Render(result)
	if err != nil {
		return fmt.Errorf("渲染失败: %w", err)
	}
	if err := os.WriteFile(outputPath, pngBytes, 0o644); err != nil {
		return fmt.Errorf("写入 PNG 文件失败: %w", err)
	}

	return nil
}
