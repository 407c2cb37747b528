package scene

// 该文件定义场景注册表：每个场景绑定固定的背景模板与药丸配色。
// 布局与渲染只消费这里的数据，场景之外的名称属于配置错误。

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownScene 表示场景名称不在注册表中，整次生成应当失败。
var ErrUnknownScene = errors.New("未知的场景名称")

// Color 采用 0-255 的 RGBA 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
	A int `json:"a"`
}

// FontRole 标识卡片上的一个文本元素，每个角色绑定固定的字体与像素字号。
type FontRole string

const (
	RoleFrequency FontRole = "frequency"
	RoleGenre     FontRole = "genre"
	RoleSceneName FontRole = "scene-name"
	RoleDate      FontRole = "date"
	RoleStation   FontRole = "station"
	RoleTags      FontRole = "tags"
)

// FontSpec 描述一个角色使用的字体文件与像素字号。加载失败时渲染器退回内置字体，
// 布局不受影响（布局对字体来源不敏感）。
type FontSpec struct {
	Src   string  `json:"src"`   // assets 下的字体文件
	Style string  `json:"style"` // 渲染器解析的字重/斜体描述
	Size  float64 `json:"size"`  // px
}

// Scene 记录一个场景的全部资源常量。
type Scene struct {
	Name       string `json:"name"`
	Background string `json:"background"` // assets 下的背景模板
	Accent     Color  `json:"accent"`     // 彩色药丸填充
	White      Color  `json:"white"`      // 普通药丸填充
	PillText   Color  `json:"pillText"`
}

var registry = map[string]Scene{
	"l'atrium": {
		Name:       "L'Atrium",
		Background: "assets/orange.png",
		Accent:     Color{R: 255, G: 134, B: 53, A: 255},
		White:      Color{R: 255, G: 255, B: 255, A: 220},
		PillText:   Color{R: 31, G: 41, B: 55, A: 255},
	},
	"le refuge": {
		Name:       "Le Refuge",
		Background: "assets/purple.png",
		Accent:     Color{R: 182, G: 140, B: 254, A: 220},
		White:      Color{R: 255, G: 255, B: 255, A: 220},
		PillText:   Color{R: 31, G: 41, B: 55, A: 255},
	},
}

// Lookup 按名称（不区分大小写）解析场景。
func Lookup(name string) (Scene, error) {
	if sc, ok := registry[strings.ToLower(strings.TrimSpace(name))]; ok {
		return sc, nil
	}
	return Scene{}, fmt.Errorf("%w: %q，仅支持 L'Atrium 与 Le Refuge", ErrUnknownScene, name)
}

// Fonts 返回卡片各元素的字体规格，所有场景共用。
func Fonts() map[FontRole]FontSpec {
	return map[FontRole]FontSpec{
		RoleFrequency: {Src: "assets/Obviously-MediumItalic.otf", Style: "Medium Italic", Size: 174},
		RoleGenre:     {Src: "assets/DarkerGrotesque-SemiBold.ttf", Style: "SemiBold", Size: 60},
		RoleSceneName: {Src: "assets/DarkerGrotesque-ExtraBold.ttf", Style: "ExtraBold", Size: 54},
		RoleDate:      {Src: "assets/DarkerGrotesque-ExtraBold.ttf", Style: "ExtraBold", Size: 80},
		RoleStation:   {Src: "assets/Obviously-MediumItalic.otf", Style: "Medium Italic", Size: 127},
		RoleTags:      {Src: "assets/DarkerGrotesque-ExtraBold.ttf", Style: "ExtraBold", Size: 42},
	}
}
