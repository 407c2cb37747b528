package layout

// 药丸尺寸计算与两种打包策略。
//
// fixed-slot：恰好 5 个标签预先分配到 [2,2,1] 三行，是既定视觉设计的硬约定；
// greedy-flow：任意数量的标签在固定种子乱序后逐行贪心填充，行数有硬上限。
// 两者是不同的打包问题，不能合并（fixed 保证精确排布，flow 容纳无界输入）。

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/clumzy/StationR-ImageGen/scene"
)

// ErrLabelCount 表示 fixed-slot 策略拿到的标签数不是 5（配置错误）。
var ErrLabelCount = errors.New("fixed-slot 策略需要恰好 5 个标签")

// minTagRunes 是截断后省略号之前至少保留的可见字符数。
// 到达下限后 shrinkLabel 原样返回，再截断是幂等的。
const minTagRunes = 3

// pillBaselineShift 是药丸内文本垂直居中的基线修正（px）。
// 经验常数，换字体时可重新标定，不影响“文本在药丸内视觉居中”的契约。
const pillBaselineShift = 2

// PillWidth 返回文本加左右内边距后的药丸宽度。
func PillWidth(face Face, text string, padX float64) float64 {
	return face.TextWidth(text) + 2*padX
}

// PillBox 返回定位在 (x, y) 的药丸矩形，高度固定，宽度由 PillWidth 给出。
func PillBox(face Face, text string, x, y, padX, pillHeight float64) Box {
	return Box{X: x, Y: y, W: PillWidth(face, text, padX), H: pillHeight}
}

// makePill 组装一个药丸：按墨迹包围盒水平居中（抵消左侧 side bearing，
// 视觉居中而非前进宽度居中），垂直按墨迹高度居中并加基线修正。
func makePill(face Face, label Label, box Box, fill, textCol scene.Color) Pill {
	b := face.Bounds(label.Text)
	return Pill{
		Label: label,
		Box:   box,
		Fill:  fill,
		Text:  textCol,
		TextX: box.X + (box.W-b.Width)/2 - b.XMin,
		TextY: box.Y + (box.H-b.Height)/2 - b.YMin + pillBaselineShift,
	}
}

// shrinkLabel 去掉末尾字符并重挂省略号：首次截断移除末尾 4 个字符再补
// 省略号，之后每次再移除 1 个。可见字符到达下限后原样返回。
func shrinkLabel(text string) string {
	core := strings.TrimSuffix(text, ellipsis)
	runes := []rune(core)
	if len(runes) <= minTagRunes {
		return text
	}
	drop := 1
	if core == text {
		drop = 4
	}
	keep := len(runes) - drop
	if keep < minTagRunes {
		keep = minTagRunes
	}
	return string(runes[:keep]) + ellipsis
}

// fitLabel 在放置前截断标签，直到它单独成丸也能放进 maxWidth，或到达下限。
func fitLabel(face Face, text string, maxWidth, padX float64) string {
	for PillWidth(face, text, padX) > maxWidth {
		shrunk := shrinkLabel(text)
		if shrunk == text {
			break
		}
		text = shrunk
	}
	return text
}

// flowFill 按类别决定 greedy-flow 策略下的药丸填充色。
func flowFill(sc scene.Scene, kind LabelKind) scene.Color {
	switch kind {
	case KindVerbatim, KindSceneName:
		return sc.Accent
	default:
		return sc.White
	}
}

// PackFixed 按 [2,2,1] 固定排布打包恰好 5 个标签。
// 原始位置 2 与 3（从 1 数）无论内容如何都使用强调色。
// 两丸行超预算时先缩更宽的那个（等宽缩第一个），缩到下限后换另一个；
// 单丸行只缩自己。截断循环严格单调，必然终止。
func PackFixed(face Face, labels []Label, sc scene.Scene, cfg Config, originX, originY float64) ([]Row, error) {
	if len(labels) != 5 {
		return nil, fmt.Errorf("%w：收到 %d 个", ErrLabelCount, len(labels))
	}
	budget := cfg.CanvasWidth - 2*cfg.MarginX
	accent := func(idx int) scene.Color {
		if idx == 1 || idx == 2 {
			return sc.Accent
		}
		return sc.White
	}

	rows := make([]Row, 0, 3)
	slots := [][]int{{0, 1}, {2, 3}, {4}}
	for rowNum, idxs := range slots {
		y := originY + float64(rowNum)*(cfg.PillHeight+cfg.GapY)
		if len(idxs) == 2 {
			a, b := labels[idxs[0]], labels[idxs[1]]
			a.Text, b.Text = fitPair(face, a.Text, b.Text, budget, cfg.PadX, cfg.GapX)

			boxA := PillBox(face, a.Text, originX, y, cfg.PadX, cfg.PillHeight)
			boxB := PillBox(face, b.Text, boxA.X+boxA.W+cfg.GapX, y, cfg.PadX, cfg.PillHeight)
			row := Row{
				Pills: []Pill{
					makePill(face, a, boxA, accent(idxs[0]), sc.PillText),
					makePill(face, b, boxB, accent(idxs[1]), sc.PillText),
				},
				Width: boxA.W + cfg.GapX + boxB.W,
			}
			rows = append(rows, row)
			continue
		}

		single := labels[idxs[0]]
		single.Text = fitLabel(face, single.Text, budget, cfg.PadX)
		box := PillBox(face, single.Text, originX, y, cfg.PadX, cfg.PillHeight)
		rows = append(rows, Row{
			Pills: []Pill{makePill(face, single, box, accent(idxs[0]), sc.PillText)},
			Width: box.W,
		})
	}
	return rows, nil
}

// fitPair 缩减一对标签直到两丸加间距放进预算。等宽时偏向缩第一个。
func fitPair(face Face, a, b string, budget, padX, gapX float64) (string, string) {
	for {
		wa := PillWidth(face, a, padX)
		wb := PillWidth(face, b, padX)
		if wa+gapX+wb <= budget {
			return a, b
		}
		if wa >= wb {
			if shrunk := shrinkLabel(a); shrunk != a {
				a = shrunk
				continue
			}
			if shrunk := shrinkLabel(b); shrunk != b {
				b = shrunk
				continue
			}
		} else {
			if shrunk := shrinkLabel(b); shrunk != b {
				b = shrunk
				continue
			}
			if shrunk := shrinkLabel(a); shrunk != a {
				a = shrunk
				continue
			}
		}
		// 两个都到下限，接受溢出
		return a, b
	}
}

// PackFlow 以贪心流式打包任意数量的标签。
//
// 输入顺序先用调用方提供的（已播种的）rng 乱序，保证相同输入与种子得到
// 相同排布；随后每个标签在放置前独立截断到单独能放进行宽预算，再从左到右
// 逐行填充。行数到达 MaxLines 后停止打包，剩余标签静默丢弃。
// 空标签列表返回零行。
func PackFlow(face Face, labels []Label, sc scene.Scene, cfg Config, originX, originY float64, rng *rand.Rand) []Row {
	if len(labels) == 0 {
		return nil
	}
	shuffled := append([]Label(nil), labels...)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	budget := cfg.CanvasWidth - 2*cfg.MarginX
	var rows []Row
	var cur Row
	x := originX
	y := originY

	closeRow := func() {
		rows = append(rows, cur)
		cur = Row{}
		x = originX
		y = originY + float64(len(rows))*(cfg.PillHeight+cfg.GapY)
	}

	for _, label := range shuffled {
		label.Text = fitLabel(face, label.Text, budget, cfg.PadX)
		w := PillWidth(face, label.Text, cfg.PadX)

		gap := cfg.GapX
		if len(cur.Pills) == 0 {
			gap = 0
		}
		if len(cur.Pills) > 0 && cur.Width+gap+w > budget {
			if len(rows)+1 >= cfg.MaxLines && cfg.MaxLines > 0 {
				// 行数见顶，剩余标签丢弃
				closeRow()
				return rows
			}
			closeRow()
			gap = 0
		}

		box := PillBox(face, label.Text, x+gap, y, cfg.PadX, cfg.PillHeight)
		cur.Pills = append(cur.Pills, makePill(face, label, box, flowFill(sc, label.Kind), sc.PillText))
		cur.Width += gap + w
		x = box.X + box.W
	}
	if len(cur.Pills) > 0 {
		rows = append(rows, cur)
	}
	return rows
}
