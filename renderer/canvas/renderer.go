package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/clumzy/StationR-ImageGen/fonts"
	"github.com/clumzy/StationR-ImageGen/layout"
	"github.com/clumzy/StationR-ImageGen/renderer"
	"github.com/clumzy/StationR-ImageGen/scene"
)

// canvas 的字号以 pt 计，而本渲染器把画布单位当作 px 使用；
// 创建字体面时按 1pt = 0.352777 单位做一次换算。
const ptPerPx = 0.352777

func toPt(px float64) float64 { return px / ptPerPx }

// Renderer 通过 github.com/tdewolff/canvas 绘制布局结果并栅格化为 PNG。
// 同时实现 layout.FaceSource，为布局提供字体度量。
type Renderer struct {
	baseDir string

	// injected resources
	fontBlobs  map[string][]byte // 按 assets 路径
	imageBlobs map[string][]byte

	fontMu   sync.Mutex
	families map[scene.FontRole]*familyEntry
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.FaceSource = (*Renderer)(nil)
)

type familyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// Options configures the canvas renderer.
type Options struct {
	BaseDir string
	Fonts   map[string]Resource // 按资源路径注入字体，绕过磁盘
	Images  map[string]Resource // 同上，背景模板
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a canvas-based renderer rooted at baseDir for resolving assets.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with injected resources and optional baseDir.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		baseDir:    opts.BaseDir,
		fontBlobs:  map[string][]byte{},
		imageBlobs: map[string][]byte{},
		families:   map[scene.FontRole]*familyEntry{},
	}
	for name, res := range opts.Fonts {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			r.fontBlobs[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			data, _ := os.ReadFile(res.Path) // ignore error here; will be caught when actually used
			if len(data) > 0 {
				r.fontBlobs[name] = data
			}
		}
	}
	for name, res := range opts.Images {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			r.imageBlobs[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			data, _ := os.ReadFile(res.Path)
			if len(data) > 0 {
				r.imageBlobs[name] = data
			}
		}
	}
	return r
}

// Render 在背景模板上绘制全部文本与药丸，返回 PNG 字节。
// 背景缺失或无法解码是致命错误；字体问题在 Face 阶段已退化为内置字体。
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	bg, err := r.loadImage(result.Background)
	if err != nil {
		return nil, err
	}

	c := canvas.New(result.Width, result.Height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

	ctx.DrawImage(0, 0, bg, canvas.DPMM(1.0))

	if result.ScenePill.Label.Text != "" {
		if err := r.drawPill(ctx, result.ScenePill, scene.RoleSceneName); err != nil {
			return nil, err
		}
	}
	for _, tb := range result.Texts {
		if err := r.drawTextBox(ctx, tb); err != nil {
			return nil, err
		}
	}
	for _, row := range result.TagRows {
		for _, pill := range row.Pills {
			if err := r.drawPill(ctx, pill, scene.RoleTags); err != nil {
				return nil, err
			}
		}
	}

	img := rasterizer.Draw(c, canvas.DPMM(1.0), canvas.DefaultColorSpace)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("编码 PNG 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// Face 实现 layout.FaceSource。字体文件缺失或损坏时退回内置字体，
// 布局照常进行（软失败）。
func (r *Renderer) Face(role scene.FontRole) (layout.Face, error) {
	entry, spec, err := r.ensureFamily(role)
	if err != nil {
		return nil, err
	}
	ff := entry.family.Face(toPt(spec.Size), canvas.Black, entry.style, canvas.FontNormal)
	return &face{ff: ff}, nil
}

func (r *Renderer) coloredFace(role scene.FontRole, col scene.Color) (*canvas.FontFace, error) {
	entry, spec, err := r.ensureFamily(role)
	if err != nil {
		return nil, err
	}
	return entry.family.Face(toPt(spec.Size), nrgba(col), entry.style, canvas.FontNormal), nil
}

func (r *Renderer) ensureFamily(role scene.FontRole) (*familyEntry, scene.FontSpec, error) {
	spec, ok := scene.Fonts()[role]
	if !ok {
		return nil, scene.FontSpec{}, fmt.Errorf("未知的字体角色 %q", role)
	}

	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	if entry, ok := r.families[role]; ok {
		return entry, spec, nil
	}

	entry := &familyEntry{style: parseFontStyle(spec.Style)}
	family := canvas.NewFontFamily(string(role))
	if data, err := r.loadFontBytes(spec.Src); err == nil && family.LoadFont(data, 0, entry.style) == nil {
		entry.family = family
	} else {
		// 退回内置字体
		data, err := fonts.Load(fonts.Fallback)
		if err != nil {
			return nil, spec, err
		}
		fallback := canvas.NewFontFamily(string(role) + "-fallback")
		if err := fallback.LoadFont(data, 0, canvas.FontRegular); err != nil {
			return nil, spec, err
		}
		entry.family = fallback
		entry.style = canvas.FontRegular
	}
	r.families[role] = entry
	return entry, spec, nil
}

func (r *Renderer) loadFontBytes(src string) ([]byte, error) {
	if src == "" {
		return nil, fmt.Errorf("字体缺少 src")
	}
	if blob, ok := r.fontBlobs[src]; ok {
		return blob, nil
	}
	path := src
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.baseDir, path)
	}
	return os.ReadFile(path)
}

func (r *Renderer) loadImage(src string) (image.Image, error) {
	if src == "" {
		return nil, fmt.Errorf("缺少背景模板路径")
	}
	if blob, ok := r.imageBlobs[src]; ok {
		img, _, err := image.Decode(bytes.NewReader(blob))
		if err != nil {
			return nil, fmt.Errorf("解码背景 %s 失败: %w", src, err)
		}
		return img, nil
	}
	path := src
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.baseDir, path)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("读取背景 %s 失败: %w", src, err)
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("解码背景 %s 失败: %w", src, err)
	}
	return img, nil
}

func (r *Renderer) drawTextBox(ctx *canvas.Context, tb layout.TextBox) error {
	ff, err := r.coloredFace(tb.Role, tb.Color)
	if err != nil {
		return err
	}
	metrics := ff.Metrics()

	for _, line := range tb.Lines {
		baseline := line.Y + metrics.Ascent
		if tb.Tracking == 0 {
			ctx.DrawText(tb.X, baseline, canvas.NewTextLine(ff, line.Content, canvas.Left))
		} else {
			r.drawTracked(ctx, ff, tb.X, baseline, line.Content, tb.Tracking)
		}
		if line.Ellipsis {
			// 省略号不参与追踪，紧跟在最后一个词的追踪宽度之后
			ex := tb.X + layout.Width(&face{ff: ff}, line.Content, tb.Tracking)
			ctx.DrawText(ex, baseline, canvas.NewTextLine(ff, "...", canvas.Left))
		}
	}
	return nil
}

// drawTracked 逐字符绘制并推进游标：每画完一个字符前进 advance+tracking，
// 包括最后一个字符。布局用的测量宽度只含字符间的 n-1 份 tracking，见
// layout.Width 的说明。
func (r *Renderer) drawTracked(ctx *canvas.Context, ff *canvas.FontFace, x, baseline float64, content string, tracking float64) {
	for _, ch := range content {
		s := string(ch)
		ctx.DrawText(x, baseline, canvas.NewTextLine(ff, s, canvas.Left))
		x += ff.TextWidth(s) + tracking
	}
}

func (r *Renderer) drawPill(ctx *canvas.Context, pill layout.Pill, role scene.FontRole) error {
	ctx.SetFillColor(nrgba(pill.Fill))
	ctx.SetStrokeColor(canvas.Transparent)
	ctx.DrawPath(pill.Box.X, pill.Box.Y, canvas.RoundedRectangle(pill.Box.W, pill.Box.H, pill.Box.H/2))

	ff, err := r.coloredFace(role, pill.Text)
	if err != nil {
		return err
	}
	baseline := pill.TextY + ff.Metrics().Ascent
	ctx.DrawText(pill.TextX, baseline, canvas.NewTextLine(ff, pill.Label.Text, canvas.Left))
	return nil
}

// face 适配 canvas.FontFace 到 layout.Face。
type face struct {
	ff *canvas.FontFace
}

func (f *face) TextWidth(s string) float64 { return f.ff.TextWidth(s) }

func (f *face) Advance(r rune) float64 { return f.ff.TextWidth(string(r)) }

// Bounds 返回墨迹包围盒，换算到以文本框顶边为原点的左上角坐标系。
func (f *face) Bounds(s string) layout.TextBounds {
	if s == "" {
		return layout.TextBounds{}
	}
	b := canvas.NewTextLine(f.ff, s, canvas.Left).Bounds()
	m := f.ff.Metrics()
	return layout.TextBounds{
		XMin:   b.X0,
		YMin:   m.Ascent - b.Y1,
		Width:  b.W(),
		Height: b.H(),
	}
}

func (f *face) Metrics() layout.Metrics {
	m := f.ff.Metrics()
	return layout.Metrics{
		Ascent:     m.Ascent,
		Descent:    m.Descent,
		LineHeight: m.LineHeight,
		CapHeight:  m.CapHeight,
	}
}

func parseFontStyle(style string) canvas.FontStyle {
	if style == "" {
		return canvas.FontRegular
	}
	s := strings.ToLower(style)
	result := canvas.FontRegular
	switch {
	case strings.Contains(s, "black"):
		result = canvas.FontBlack
	case strings.Contains(s, "extrabold"):
		result = canvas.FontExtraBold
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		result = canvas.FontSemiBold
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	default:
		result = canvas.FontRegular
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}

func nrgba(c scene.Color) color.Color {
	return color.NRGBA{R: uint8(c.R), G: uint8(c.G), B: uint8(c.B), A: uint8(c.A)}
}
