package renderer

import "github.com/clumzy/StationR-ImageGen/layout"

// Renderer 将布局结果合成为最终图像字节（例如 PNG）。
// 渲染器只负责按给定几何作画，不重新做任何尺寸决策。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}
