package layout

// 该文件定义布局结果与几何描述，供布局计算、渲染与调试 JSON 共用。
// 所有坐标与尺寸均为像素，原点在画布左上角。布局只计算几何，绘制交给渲染器。

import "github.com/clumzy/StationR-ImageGen/scene"

// Result 保存一张卡片布局后的全部元素。
type Result struct {
	Width      float64     `json:"width"`
	Height     float64     `json:"height"`
	Scene      scene.Scene `json:"scene"`
	Background string      `json:"background"` // 背景模板路径
	Texts      []TextBox   `json:"texts"`
	ScenePill  Pill        `json:"scenePill"`
	TagRows    []Row       `json:"tagRows"`
}

// LabelKind 标识一个药丸标签的类别，greedy-flow 策略按类别决定填充色。
type LabelKind string

const (
	KindTag       LabelKind = "tag"
	KindVerbatim  LabelKind = "verbatim"
	KindArtist    LabelKind = "artist"
	KindSceneName LabelKind = "scene-name"
)

// Label 是待打包的标签，构造后不再修改。
type Label struct {
	Kind LabelKind `json:"kind"`
	Text string    `json:"text"`
}

// Box 表示一个轴对齐矩形。
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// TextBox 表示一个已经排好坐标的文本块。Y 为首行文本的顶边。
type TextBox struct {
	Role     scene.FontRole `json:"role"`
	X        float64        `json:"x"`
	Y        float64        `json:"y"`
	Tracking float64        `json:"tracking,omitempty"` // 字符间附加间距（px，可为负）
	Color    scene.Color    `json:"color"`
	Lines    []TextLine     `json:"lines"`
}

// TextLine 表示排版后的一行文本及其测量宽度。
// Ellipsis 为真时，行尾的省略号不参与 tracking，紧跟在最后一个词的追踪宽度之后。
type TextLine struct {
	Content  string  `json:"content"`
	Width    float64 `json:"width"`
	Y        float64 `json:"y"`
	Ellipsis bool    `json:"ellipsis,omitempty"`
}

// Pill 表示一个定位完成的药丸：圆角矩形加居中文本。
// TextX/TextY 是文本绘制原点（左上角坐标系），由布局基于墨迹包围盒解析，
// 渲染器不需要再做任何尺寸决策。
type Pill struct {
	Label Label       `json:"label"`
	Box   Box         `json:"box"`
	Fill  scene.Color `json:"fill"`
	Text  scene.Color `json:"text"`
	TextX float64     `json:"textX"`
	TextY float64     `json:"textY"`
}

// Row 是一行药丸，插入顺序即绘制顺序。
type Row struct {
	Pills []Pill  `json:"pills"`
	Width float64 `json:"width"` // Σ 药丸宽 + (n-1)*gapX
}
