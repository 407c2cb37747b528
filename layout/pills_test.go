package layout

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/clumzy/StationR-ImageGen/scene"
)

func testScene(t *testing.T) scene.Scene {
	t.Helper()
	sc, err := scene.Lookup("L'Atrium")
	if err != nil {
		t.Fatalf("场景查找失败: %v", err)
	}
	return sc
}

func labelsOf(texts ...string) []Label {
	labels := make([]Label, len(texts))
	for i, text := range texts {
		labels[i] = Label{Kind: KindTag, Text: text}
	}
	return labels
}

// TestPillWidth 药丸宽度 = 文本宽 + 左右内边距。
func TestPillWidth(t *testing.T) {
	face := testFace()
	if w := PillWidth(face, "Calme", 30); w != 5*10+60 {
		t.Fatalf("药丸宽度错误: %g", w)
	}
}

// TestMakePillCentering 文本按墨迹包围盒居中：抵消左侧 side bearing，
// 垂直居中后加基线修正。
func TestMakePillCentering(t *testing.T) {
	face := testFace()
	box := Box{X: 100, Y: 200, W: 110, H: 72}
	p := makePill(face, Label{Kind: KindTag, Text: "Calme"}, box, scene.Color{}, scene.Color{})
	b := face.Bounds("Calme")
	wantX := box.X + (box.W-b.Width)/2 - b.XMin
	wantY := box.Y + (box.H-b.Height)/2 - b.YMin + pillBaselineShift
	if p.TextX != wantX || p.TextY != wantY {
		t.Fatalf("文本定位错误: got=(%g, %g) want=(%g, %g)", p.TextX, p.TextY, wantX, wantY)
	}
}

// TestShrinkLabel 首次截断移除 4 个字符，之后每次 1 个；
// 可见字符到达下限后幂等。
func TestShrinkLabel(t *testing.T) {
	s := shrinkLabel("Hypnotique") // 10 个字符
	if s != "Hypnot..." {
		t.Fatalf("首次截断应移除 4 个字符: %q", s)
	}
	s = shrinkLabel(s)
	if s != "Hypno..." {
		t.Fatalf("后续截断应每次移除 1 个: %q", s)
	}
	// 缩到下限
	for i := 0; i < 10; i++ {
		s = shrinkLabel(s)
	}
	if s != "Hyp..." {
		t.Fatalf("下限应保留 3 个可见字符: %q", s)
	}
	if again := shrinkLabel(s); again != s {
		t.Fatalf("下限处应幂等: %q -> %q", s, again)
	}
}

// TestFitLabel 截断到单独成丸能放进预算为止。
func TestFitLabel(t *testing.T) {
	face := testFace() // 每字符 10
	// 预算 100，padX 10：文本最多 8 个字符
	got := fitLabel(face, "Anticonstitutionnel", 100, 10)
	if w := PillWidth(face, got, 10); w > 100 {
		t.Fatalf("截断后仍超预算: %q width=%g", got, w)
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("截断结果应带省略号: %q", got)
	}
	// 放得下的标签原样返回
	if got := fitLabel(face, "Doux", 100, 10); got != "Doux" {
		t.Fatalf("未超宽的标签不应被改动: %q", got)
	}
}

// TestPackFixedLayout 恰好 5 个标签排成 [2,2,1]，
// 原始位置 2 与 3 的药丸无论落在哪一行都使用强调色。
func TestPackFixedLayout(t *testing.T) {
	face := testFace()
	sc := testScene(t)
	cfg := DefaultConfig()
	rows, err := PackFixed(face, labelsOf("Défensif", "Paisible", "Révélateur", "Percutant", "Hypnotique"), sc, cfg, 66, 1300)
	if err != nil {
		t.Fatalf("fixed 打包失败: %v", err)
	}
	if len(rows) != 3 || len(rows[0].Pills) != 2 || len(rows[1].Pills) != 2 || len(rows[2].Pills) != 1 {
		t.Fatalf("排布应为 [2,2,1]: %+v", rows)
	}

	// 填充色：白 彩 / 彩 白 / 白
	wantFills := [][]scene.Color{
		{sc.White, sc.Accent},
		{sc.Accent, sc.White},
		{sc.White},
	}
	for i, row := range rows {
		for j, p := range row.Pills {
			if p.Fill != wantFills[i][j] {
				t.Fatalf("第 %d 行第 %d 丸填充色错误: %+v", i+1, j+1, p.Fill)
			}
		}
	}

	// 行距与行宽
	for i, row := range rows {
		wantY := 1300 + float64(i)*(cfg.PillHeight+cfg.GapY)
		if row.Pills[0].Box.Y != wantY {
			t.Fatalf("第 %d 行 Y 错误: got=%g want=%g", i+1, row.Pills[0].Box.Y, wantY)
		}
		total := 0.0
		for _, p := range row.Pills {
			total += p.Box.W
		}
		total += float64(len(row.Pills)-1) * cfg.GapX
		if row.Width != total {
			t.Fatalf("第 %d 行宽度不自洽: got=%g want=%g", i+1, row.Width, total)
		}
	}

	// 同行的第二个药丸贴在第一个之后
	first, second := rows[0].Pills[0].Box, rows[0].Pills[1].Box
	if second.X != first.X+first.W+cfg.GapX {
		t.Fatalf("同行药丸间距错误: %g", second.X)
	}
}

// TestPackFixedWrongCount 标签数不是 5 属于配置错误。
func TestPackFixedWrongCount(t *testing.T) {
	face := testFace()
	sc := testScene(t)
	cfg := DefaultConfig()
	for _, n := range []int{1, 4, 6} {
		texts := make([]string, n)
		for i := range texts {
			texts[i] = "x"
		}
		if _, err := PackFixed(face, labelsOf(texts...), sc, cfg, 66, 1300); !errors.Is(err, ErrLabelCount) {
			t.Fatalf("%d 个标签应返回 ErrLabelCount: %v", n, err)
		}
	}
}

// TestPackFixedShrinksWider 两丸行超预算时先缩更宽的那个。
func TestPackFixedShrinksWider(t *testing.T) {
	face := testFace() // 每字符 10
	sc := testScene(t)
	cfg := DefaultConfig()
	cfg.CanvasWidth = 300
	cfg.MarginX = 50
	cfg.PadX = 5
	cfg.GapX = 10
	// 预算 200：16 字符的 A 丸（170）加间距加 BBB 丸（40）超预算
	rows, err := PackFixed(face, labelsOf(strings.Repeat("A", 16), "BBB", "c", "d", "e"), sc, cfg, 50, 0)
	if err != nil {
		t.Fatalf("fixed 打包失败: %v", err)
	}
	a, b := rows[0].Pills[0].Label.Text, rows[0].Pills[1].Label.Text
	if b != "BBB" {
		t.Fatalf("较窄的标签不应被缩: %q", b)
	}
	if !strings.HasSuffix(a, "...") {
		t.Fatalf("较宽的标签应被截断: %q", a)
	}
	if rows[0].Width > 200 {
		t.Fatalf("截断后行宽仍超预算: %g", rows[0].Width)
	}
}

// TestPackFlowDeterministic 相同标签与种子得到逐丸相同的排布。
func TestPackFlowDeterministic(t *testing.T) {
	face := testFace()
	sc := testScene(t)
	cfg := DefaultConfig()
	labels := labelsOf("Défensif", "Paisible", "Révélateur", "Percutant", "Hypnotique", "Nocturne", "Brûlant")

	a := PackFlow(face, labels, sc, cfg, 66, 1300, rand.New(rand.NewSource(7)))
	b := PackFlow(face, labels, sc, cfg, 66, 1300, rand.New(rand.NewSource(7)))
	if len(a) != len(b) {
		t.Fatalf("两次打包行数不同: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if len(a[i].Pills) != len(b[i].Pills) || a[i].Width != b[i].Width {
			t.Fatalf("第 %d 行不一致", i+1)
		}
		for j := range a[i].Pills {
			if a[i].Pills[j] != b[i].Pills[j] {
				t.Fatalf("第 %d 行第 %d 丸不一致", i+1, j+1)
			}
		}
	}
}

// TestPackFlowRowBudget 每行宽度不超过预算，行内药丸从左到右紧贴。
func TestPackFlowRowBudget(t *testing.T) {
	face := testFace()
	sc := testScene(t)
	cfg := DefaultConfig()
	labels := labelsOf("Défensif", "Paisible", "Révélateur", "Percutant", "Hypnotique",
		"Nocturne", "Brûlant", "Feutré", "Organique", "Minéral", "Sombre", "Vif")
	budget := cfg.CanvasWidth - 2*cfg.MarginX

	rows := PackFlow(face, labels, sc, cfg, cfg.MarginX, 1300, rand.New(rand.NewSource(1)))
	if len(rows) == 0 {
		t.Fatalf("未生成任何行")
	}
	for i, row := range rows {
		if row.Width > budget {
			t.Fatalf("第 %d 行超预算: %g > %g", i+1, row.Width, budget)
		}
		x := cfg.MarginX
		for j, p := range row.Pills {
			if p.Box.X != x {
				t.Fatalf("第 %d 行第 %d 丸 X 错误: got=%g want=%g", i+1, j+1, p.Box.X, x)
			}
			x = p.Box.X + p.Box.W + cfg.GapX
		}
	}
}

// TestPackFlowMaxLines 行数见顶后停止打包，剩余标签静默丢弃。
func TestPackFlowMaxLines(t *testing.T) {
	face := testFace() // 每字符 10
	sc := testScene(t)
	cfg := DefaultConfig()
	cfg.CanvasWidth = 200
	cfg.MarginX = 10
	cfg.PadX = 5
	cfg.MaxLines = 2
	// 每个标签 15 字符 = 150+10 宽，一行只放得下一个
	labels := labelsOf(strings.Repeat("a", 15), strings.Repeat("b", 15),
		strings.Repeat("c", 15), strings.Repeat("d", 15), strings.Repeat("e", 15))

	rows := PackFlow(face, labels, sc, cfg, 10, 0, rand.New(rand.NewSource(1)))
	if len(rows) != 2 {
		t.Fatalf("应止于 2 行: %d", len(rows))
	}
	placed := 0
	for _, row := range rows {
		placed += len(row.Pills)
	}
	if placed != 2 {
		t.Fatalf("见顶后应丢弃剩余标签: 放置了 %d 个", placed)
	}
}

// TestPackFlowEmpty 空标签列表返回零行。
func TestPackFlowEmpty(t *testing.T) {
	face := testFace()
	sc := testScene(t)
	if rows := PackFlow(face, nil, sc, DefaultConfig(), 66, 1300, rand.New(rand.NewSource(1))); rows != nil {
		t.Fatalf("空输入应返回 nil: %+v", rows)
	}
}
