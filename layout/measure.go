package layout

// Width 计算文本在给定字体面下的布局宽度（px）。
//
// tracking == 0 时直接返回整串的包围盒宽度；否则按逐字符前进宽度求和，
// 并只在字符之间插入 tracking（共 n-1 份）。绘制端画每个字符后都会前进
// advance+tracking（包括最后一个字符），而布局决策（居中、贴右缘）使用
// 本函数的仅字符间公式——这是与原始绘制逻辑一致的已知边界差异，改动需
// 同步调整渲染器的游标推进。
func Width(face Face, text string, tracking float64) float64 {
	if text == "" {
		return 0
	}
	if tracking == 0 {
		return face.TextWidth(text)
	}
	total := 0.0
	n := 0
	for _, r := range text {
		total += face.Advance(r)
		n++
	}
	return total + tracking*float64(n-1)
}
