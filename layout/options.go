package layout

import "github.com/clumzy/StationR-ImageGen/scene"

// Metrics 是一个字体面的纵向度量（px）。
type Metrics struct {
	Ascent     float64
	Descent    float64
	LineHeight float64
	CapHeight  float64
}

// TextBounds 描述一段文本的墨迹包围盒，相对于文本绘制原点（左上角坐标系）。
// XMin 即左侧 side bearing：视觉居中时需要用它抵消绘制原点与墨迹左缘的偏差。
type TextBounds struct {
	XMin   float64
	YMin   float64
	Width  float64
	Height float64
}

// Face 提供布局所需的全部字体度量。布局只消费该接口，
// 具体实现由渲染后端给出（见 renderer/canvas）。
type Face interface {
	// TextWidth 返回整串文本的包围盒宽度。
	TextWidth(s string) float64
	// Advance 返回单个字符的前进宽度。
	Advance(r rune) float64
	// Bounds 返回文本墨迹包围盒，用于药丸内的视觉居中。
	Bounds(s string) TextBounds
	Metrics() Metrics
}

// FaceSource 按角色提供字体面。字体文件缺失时实现方应退回内置字体而不是报错，
// 布局对字体来源不敏感。
type FaceSource interface {
	Face(role scene.FontRole) (Face, error)
}

// PackPolicy 选择药丸打包策略。
type PackPolicy string

const (
	// PolicyFixed 要求恰好 5 个标签，按 [2,2,1] 三行固定排布。
	PolicyFixed PackPolicy = "fixed"
	// PolicyFlow 接受任意数量的标签，乱序（固定种子）后逐行贪心填充。
	PolicyFlow PackPolicy = "flow"
)

// Config 集中一份布局引擎的全部参数。
// 原型里三套几乎相同的常量在这里收敛为一份可注入的配置。
type Config struct {
	CanvasWidth  float64
	CanvasHeight float64
	MarginX      float64 // 左右留白，行宽预算 = CanvasWidth - 2*MarginX

	PadX       float64 // 药丸水平内边距
	PadY       float64
	PillHeight float64 // 固定药丸高度
	GapX       float64 // 同行药丸间距
	GapY       float64 // 行间距

	MaxLines int        // flow 策略的行数上限
	Policy   PackPolicy // 药丸打包策略
	Seed     int64      // flow 策略乱序用的确定性种子

	// 各元素的字符追踪（px，可为负）。未列出的元素不追踪。
	TrackingFrequency float64
	TrackingStation   float64

	StationSpacing float64 // 电台名折行的行距
}

// DefaultConfig 返回产品使用的布局常量。
func DefaultConfig() Config {
	return Config{
		CanvasWidth:       1080,
		CanvasHeight:      1350,
		MarginX:           66,
		PadX:              30,
		PadY:              15,
		PillHeight:        42 + 2*15, // 标签字号 + 2*PadY
		GapX:              24,
		GapY:              24,
		MaxLines:          3,
		Policy:            PolicyFixed,
		Seed:              1,
		TrackingFrequency: -8,
		TrackingStation:   -8,
		StationSpacing:    8,
	}
}

// BuildOptions 配置布局阶段所需的依赖。
type BuildOptions struct {
	Faces  FaceSource
	Config Config
}
