package layout

import (
	"fmt"
	"math/rand"

	"github.com/clumzy/StationR-ImageGen/binding"
	"github.com/clumzy/StationR-ImageGen/dsl"
	"github.com/clumzy/StationR-ImageGen/scene"
)

// 画布上的固定锚点（px）。卡片是单张定版设计，不做流式分页。
const (
	anchorX          = 66
	freqY            = 311
	genreY           = 460
	dateY            = 520
	stationY         = 800
	tagsY            = 1300
	scenePillGap     = 24  // 风格文本与场景药丸的水平间距
	scenePillOffsetY = 30  // 场景药丸相对风格行的垂直微调
	stationRightCut  = 200 // 电台名行宽 = 画布宽 - 200
)

var (
	colorWhite = scene.Color{R: 255, G: 255, B: 255, A: 255}
	colorBlack = scene.Color{R: 0, G: 0, B: 0, A: 255}
)

// Build 根据卡片内容生成整张图的布局结果。
//
// data 非空时先对所有文本字段做 ${path} 插值。布局本身从不失败：
// 任何长度的输入都会得到某个（可能被截断的）合法几何；仅场景名未注册
// 或 fixed-slot 标签数不符时返回配置错误。
func Build(card *dsl.Card, data any, opts BuildOptions) (*Result, error) {
	if card == nil {
		return nil, fmt.Errorf("卡片为空")
	}
	if opts.Faces == nil {
		return nil, fmt.Errorf("layout: 缺少字体度量来源 FaceSource")
	}
	cfg := opts.Config
	if cfg == (Config{}) {
		cfg = DefaultConfig()
	}

	sc, err := scene.Lookup(binding.Interpolate(card.Scene, data))
	if err != nil {
		return nil, err
	}

	res := &Result{
		Width:      cfg.CanvasWidth,
		Height:     cfg.CanvasHeight,
		Scene:      sc,
		Background: sc.Background,
	}
	specs := scene.Fonts()

	// 频率横幅，负追踪压紧字距
	if freq := binding.Interpolate(card.Text("frequency"), data); freq != "" {
		face, err := opts.Faces.Face(scene.RoleFrequency)
		if err != nil {
			return nil, err
		}
		content := freq + " FM"
		res.Texts = append(res.Texts, TextBox{
			Role:     scene.RoleFrequency,
			X:        anchorX,
			Y:        freqY,
			Tracking: cfg.TrackingFrequency,
			Color:    colorWhite,
			Lines: []TextLine{{
				Content: content,
				Width:   Width(face, content, cfg.TrackingFrequency),
				Y:       freqY,
			}},
		})
	}

	// 风格行 + 右侧的场景名药丸
	if genre := binding.Interpolate(card.Text("genre"), data); genre != "" {
		genreFace, err := opts.Faces.Face(scene.RoleGenre)
		if err != nil {
			return nil, err
		}
		nameFace, err := opts.Faces.Face(scene.RoleSceneName)
		if err != nil {
			return nil, err
		}
		content := genre + " dans"
		res.Texts = append(res.Texts, TextBox{
			Role:  scene.RoleGenre,
			X:     anchorX,
			Y:     genreY,
			Color: colorBlack,
			Lines: []TextLine{{Content: content, Width: genreFace.TextWidth(content), Y: genreY}},
		})

		// 药丸贴在风格文本右侧，垂直对参考行居中后再加偏移；
		// 高度随场景名的墨迹高度走，不用标签药丸的固定高度
		ref := genreFace.Bounds(content)
		ink := nameFace.Bounds(sc.Name)
		pillH := ink.Height + 2*cfg.PadY
		box := Box{
			X: anchorX + ref.Width + scenePillGap,
			Y: genreY + (ref.Height-pillH)/2 + scenePillOffsetY,
			W: PillWidth(nameFace, sc.Name, cfg.PadX),
			H: pillH,
		}
		res.ScenePill = makePill(nameFace, Label{Kind: KindSceneName, Text: sc.Name}, box, sc.Accent, sc.PillText)
	}

	if date := binding.Interpolate(card.Text("date"), data); date != "" {
		face, err := opts.Faces.Face(scene.RoleDate)
		if err != nil {
			return nil, err
		}
		res.Texts = append(res.Texts, TextBox{
			Role:  scene.RoleDate,
			X:     anchorX,
			Y:     dateY,
			Color: colorBlack,
			Lines: []TextLine{{Content: date, Width: face.TextWidth(date), Y: dateY}},
		})
	}

	// 电台名：折行，负追踪
	if station := binding.Interpolate(card.Text("station"), data); station != "" {
		face, err := opts.Faces.Face(scene.RoleStation)
		if err != nil {
			return nil, err
		}
		lines := Wrap(face, station, cfg.CanvasWidth-stationRightCut, 0)
		step := specs[scene.RoleStation].Size + cfg.StationSpacing
		for i := range lines {
			lines[i].Y = stationY + float64(i)*step
		}
		res.Texts = append(res.Texts, TextBox{
			Role:     scene.RoleStation,
			X:        anchorX,
			Y:        stationY,
			Tracking: cfg.TrackingStation,
			Color:    colorWhite,
			Lines:    lines,
		})
	}

	// 标签药丸。空标签列表退化为零行，不是错误。
	labels := collectLabels(card, data)
	if len(labels) > 0 {
		face, err := opts.Faces.Face(scene.RoleTags)
		if err != nil {
			return nil, err
		}
		switch cfg.Policy {
		case PolicyFlow:
			rng := rand.New(rand.NewSource(cfg.Seed))
			res.TagRows = PackFlow(face, labels, sc, cfg, cfg.MarginX, tagsY, rng)
		default:
			rows, err := PackFixed(face, labels, sc, cfg, cfg.MarginX, tagsY)
			if err != nil {
				return nil, err
			}
			res.TagRows = rows
		}
	}

	return res, nil
}

// collectLabels 按卡片声明顺序收集标签：tags、verbatims、artists。
func collectLabels(card *dsl.Card, data any) []Label {
	var labels []Label
	for _, text := range binding.InterpolateSlice(card.List("tags"), data) {
		labels = append(labels, Label{Kind: KindTag, Text: text})
	}
	for _, text := range binding.InterpolateSlice(card.List("verbatims"), data) {
		labels = append(labels, Label{Kind: KindVerbatim, Text: text})
	}
	for _, text := range binding.InterpolateSlice(card.List("artists"), data) {
		labels = append(labels, Label{Kind: KindArtist, Text: text})
	}
	return labels
}
